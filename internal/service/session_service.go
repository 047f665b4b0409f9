package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionService interface {
	Open(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	GetActive(ctx context.Context) (*dto.SessionResponse, error)
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest) (*dto.MovementResponse, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*dto.SessionSummary, error)
	Close(ctx context.Context, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]dto.MovementResponse, error)
	History(ctx context.Context, page, limit int) (*dto.SessionListResponse, error)
	// EnsureOpen is called by SaleService to validate a session link.
	EnsureOpen(ctx context.Context, sessionID uuid.UUID) error
}

type sessionService struct {
	repo repository.SessionRepository
}

func NewSessionService(repo repository.SessionRepository) SessionService {
	return &sessionService{repo: repo}
}

// ── Open ─────────────────────────────────────────────────────────────────────
// The open-session check and the insert run in one transaction so two
// concurrent opens cannot both succeed.

func (s *sessionService) Open(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if req.OpeningFloat.IsNegative() {
		return nil, errors.New("opening float must not be negative")
	}

	session := &model.CashSession{
		Operator:     req.Operator,
		OpeningFloat: req.OpeningFloat,
		Status:       model.SessionOpen,
		OpenedAt:     time.Now(),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.FindOpenSessionTx(tx)
		if err == nil {
			return ErrSessionAlreadyOpen
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.repo.CreateSessionTx(tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}

	return sessionToResponse(session), nil
}

// ── GetActive ────────────────────────────────────────────────────────────────

func (s *sessionService) GetActive(ctx context.Context) (*dto.SessionResponse, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sessionToResponse(session), nil
}

// ── RecordMovement ───────────────────────────────────────────────────────────
// Manual income / expense / withdrawal / deposit. Movements are immutable —
// the repository has no update or delete.

func (s *sessionService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if err := s.EnsureOpen(ctx, sessionID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, errors.New("movement amount must be positive")
	}

	mov := &model.CashMovement{
		SessionID: sessionID,
		Kind:      req.Kind,
		Amount:    req.Amount,
		Concept:   req.Concept,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, err
	}
	return movementToResponse(mov), nil
}

// ── Summary ──────────────────────────────────────────────────────────────────
// Expected cash = opening float + cash sales + deposits − withdrawals.
// Only cash sales move physical drawer cash; card and transfer sales are
// reported but excluded from the expected figure. Manual income counts with
// deposits, expenses with withdrawals.

func (s *sessionService) Summary(ctx context.Context, sessionID uuid.UUID) (*dto.SessionSummary, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	sales, err := s.repo.SumSalesByMethod(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.SumMovementsByKind(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	deposits := movements[model.MovementDeposit].Add(movements[model.MovementIncome])
	withdrawals := movements[model.MovementWithdrawal].Add(movements[model.MovementExpense])
	cashSales := sales[model.PaymentCash]

	expected := session.OpeningFloat.Add(cashSales).Add(deposits).Sub(withdrawals)

	return &dto.SessionSummary{
		SessionID:        session.ID.String(),
		OpeningFloat:     session.OpeningFloat,
		CashSales:        cashSales,
		CardSales:        sales[model.PaymentCard],
		TransferSales:    sales[model.PaymentTransfer],
		TotalDeposits:    deposits,
		TotalWithdrawals: withdrawals,
		ExpectedCash:     expected,
	}, nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// One-way transition: computes expected cash, stores the counted amount and
// the variance (counted − expected), and marks the session closed. A second
// close fails and leaves the stored closing fields untouched.

func (s *sessionService) Close(ctx context.Context, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if req.CountedCash.IsNegative() {
		return nil, errors.New("counted cash must not be negative")
	}

	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != model.SessionOpen {
		return nil, ErrSessionAlreadyClosed
	}

	summary, err := s.Summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	expected := summary.ExpectedCash
	counted := req.CountedCash
	variance := counted.Sub(expected)
	now := time.Now()

	session.ExpectedCash = &expected
	session.CountedCash = &counted
	session.Variance = &variance
	session.Status = model.SessionClosed
	session.Notes = req.Notes
	session.ClosedAt = &now

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateSessionTx(tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}
	return sessionToResponse(session), nil
}

// ── Listings ─────────────────────────────────────────────────────────────────

func (s *sessionService) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]dto.MovementResponse, error) {
	if _, err := s.repo.FindSessionByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, *movementToResponse(&movements[i]))
	}
	return out, nil
}

func (s *sessionService) History(ctx context.Context, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sessions, total, err := s.repo.ListClosedSessions(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *sessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── EnsureOpen ───────────────────────────────────────────────────────────────

func (s *sessionService) EnsureOpen(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if session.Status != model.SessionOpen {
		return ErrNoActiveSession
	}
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func sessionToResponse(s *model.CashSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:           s.ID.String(),
		Operator:     s.Operator,
		OpeningFloat: s.OpeningFloat,
		ExpectedCash: s.ExpectedCash,
		CountedCash:  s.CountedCash,
		Variance:     s.Variance,
		Status:       s.Status,
		Notes:        s.Notes,
		OpenedAt:     s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

func movementToResponse(m *model.CashMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        m.ID.String(),
		SessionID: m.SessionID.String(),
		Kind:      m.Kind,
		Amount:    m.Amount,
		Concept:   m.Concept,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
