package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Process(ctx context.Context, req dto.ProcessSaleRequest) (*dto.SaleResponse, error)
	Reverse(ctx context.Context, id uuid.UUID, reason string) error
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	products    repository.ProductRepository
	stockMovs   repository.StockMovementRepository
	sessionRepo repository.SessionRepository
	sessions    SessionService
	settings    repository.SettingsRepository
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	stockMovs repository.StockMovementRepository,
	sessionRepo repository.SessionRepository,
	sessions SessionService,
	settings repository.SettingsRepository,
) SaleService {
	return &saleService{
		repo:        repo,
		products:    products,
		stockMovs:   stockMovs,
		sessionRepo: sessionRepo,
		sessions:    sessions,
		settings:    settings,
	}
}

// ── Process ──────────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Validate lines non-empty and session (when given) open
//   2. Resolve each product inside the tx: price snapshot, stock check
//   3. Allocate ticket, create sale + items
//   4. Decrement stock and record stock movements (when stock control is on)
// A failure at any step rolls back everything — no partial sale is visible.

func (s *saleService) Process(ctx context.Context, req dto.ProcessSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	var sessionID *uuid.UUID
	if req.SessionID != nil && *req.SessionID != "" {
		id, err := uuid.Parse(*req.SessionID)
		if err != nil {
			return nil, fmt.Errorf("session_id invalid: %w", err)
		}
		if err := s.sessions.EnsureOpen(ctx, id); err != nil {
			return nil, err
		}
		sessionID = &id
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var sale model.Sale

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		type resolvedLine struct {
			product  *model.Product
			quantity int
			subtotal decimal.Decimal
		}

		// Resolve products inside the tx. Prices are snapshotted server-side;
		// quantities of repeated products accumulate for the stock check.
		resolved := make([]resolvedLine, 0, len(req.Lines))
		applied := make(map[uuid.UUID]int)
		total := decimal.Zero

		for _, line := range req.Lines {
			pid, err := uuid.Parse(line.ProductID)
			if err != nil {
				return fmt.Errorf("product_id invalid: %w", err)
			}
			p, err := s.products.FindByIDTx(tx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if !p.Active {
				return ErrProductInactive
			}
			if cfg.StockControl && p.Stock-applied[pid] < line.Quantity {
				return ErrInsufficientStock
			}
			applied[pid] += line.Quantity

			subtotal := p.SalePrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			resolved = append(resolved, resolvedLine{product: p, quantity: line.Quantity, subtotal: subtotal})
		}

		ticket, err := s.repo.NextTicketTx(tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			Ticket:        ticket,
			SessionID:     sessionID,
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			Status:        model.SaleCompleted,
			CreatedAt:     time.Now(),
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: r.product.ID,
				Quantity:  r.quantity,
				UnitPrice: r.product.SalePrice,
				Subtotal:  r.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		if !cfg.StockControl {
			return nil
		}

		// Decrement stock per line. stockLeft tracks repeated products so the
		// movement audit rows stay consistent.
		stockLeft := make(map[uuid.UUID]int)
		for _, r := range resolved {
			before, seen := stockLeft[r.product.ID]
			if !seen {
				before = r.product.Stock
			}
			after := before - r.quantity
			stockLeft[r.product.ID] = after

			if err := s.products.UpdateStockTx(tx, r.product.ID, -r.quantity); err != nil {
				return err
			}
			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   r.product.ID,
				Kind:        model.StockSale,
				Quantity:    -r.quantity,
				StockBefore: before,
				StockAfter:  after,
				Reason:      fmt.Sprintf("Sale #%d", sale.Ticket),
				ReferenceID: &saleRef,
				CreatedAt:   time.Now(),
			}
			if err := s.stockMovs.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := saleToResponse(&sale)
	// Enrich item names: the Product association is not preloaded on a fresh
	// insert.
	for i := range sale.Items {
		p, err := s.products.FindByID(ctx, sale.Items[i].ProductID)
		if err == nil {
			resp.Items[i].Product = p.Name
		}
	}
	return resp, nil
}

// ── Reverse ──────────────────────────────────────────────────────────────────
// Undoes a sale's inventory and cash effects without deleting its row.
// The status flip is a compare-and-set: a second reversal finds zero rows
// updated and fails with ErrSaleAlreadyReversed, leaving stock untouched.

func (s *saleService) Reverse(ctx context.Context, id uuid.UUID, reason string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		return err
	}
	if sale.Status == model.SaleReversed {
		return ErrSaleAlreadyReversed
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.MarkReversedTx(tx, id, reason, time.Now())
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrSaleAlreadyReversed
		}

		// Restore stock. Mirrors the decrement at sale time: only applies
		// when stock control is enabled.
		if cfg.StockControl {
			for _, item := range sale.Items {
				p, err := s.products.FindByIDTx(tx, item.ProductID)
				if err != nil {
					return err
				}
				if err := s.products.UpdateStockTx(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
				saleRef := sale.ID
				mov := &model.StockMovement{
					ProductID:   item.ProductID,
					Kind:        model.StockSaleReversal,
					Quantity:    item.Quantity,
					StockBefore: p.Stock,
					StockAfter:  p.Stock + item.Quantity,
					Reason:      fmt.Sprintf("Reversal of sale #%d — %s", sale.Ticket, reason),
					ReferenceID: &saleRef,
					CreatedAt:   time.Now(),
				}
				if err := s.stockMovs.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		// A cash sale linked to a still-open session gets a compensating
		// withdrawal so the session's expected cash stays consistent. The
		// session read must run on the transaction connection: the pool is
		// capped at one connection and a plain read would wait on it forever.
		if sale.PaymentMethod == model.PaymentCash && sale.SessionID != nil {
			session, err := s.sessionRepo.FindSessionByIDTx(tx, *sale.SessionID)
			if err != nil {
				// A vanished session just means no drawer to compensate;
				// anything else is a storage failure and aborts the reversal.
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			if session.Status == model.SessionOpen {
				saleRef := sale.ID
				mov := &model.CashMovement{
					SessionID:   session.ID,
					Kind:        model.MovementWithdrawal,
					Amount:      sale.Total,
					Concept:     reason,
					ReferenceID: &saleRef,
					CreatedAt:   time.Now(),
				}
				if err := s.sessionRepo.CreateMovementTx(tx, mov); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

// List returns a paginated list of sales. Default filter: today's completed
// sales.
func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.SaleCompleted
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	var sessionID *string
	if v.SessionID != nil {
		sid := v.SessionID.String()
		sessionID = &sid
	}
	return &dto.SaleResponse{
		ID:            v.ID.String(),
		Ticket:        v.Ticket,
		SessionID:     sessionID,
		Items:         items,
		Total:         v.Total,
		PaymentMethod: v.PaymentMethod,
		Status:        v.Status,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
}
