package service

import (
	"context"
	"sort"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. DB() returns nil, which makes
// runTx execute the closure directly — the services under test behave exactly
// as in production minus the SQL.

// ── Sessions ─────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	movements []model.CashMovement
	sales     []model.Sale
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *fakeSessionRepo) DB() *gorm.DB { return nil }

func (r *fakeSessionRepo) CreateSessionTx(_ *gorm.DB, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindOpenSessionTx(*gorm.DB) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindOpenSession(context.Context) (*model.CashSession, error) {
	return r.FindOpenSessionTx(nil)
}

func (r *fakeSessionRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) FindSessionByIDTx(_ *gorm.DB, id uuid.UUID) (*model.CashSession, error) {
	return r.FindSessionByID(context.Background(), id)
}

func (r *fakeSessionRepo) UpdateSessionTx(_ *gorm.DB, s *model.CashSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	return r.CreateMovementTx(nil, m)
}

func (r *fakeSessionRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeSessionRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) SumMovementsByKind(_ context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			sums[m.Kind] = sums[m.Kind].Add(m.Amount)
		}
	}
	return sums, nil
}

func (r *fakeSessionRepo) SumSalesByMethod(_ context.Context, sessionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, s := range r.sales {
		if s.SessionID != nil && *s.SessionID == sessionID && s.Status == model.SaleCompleted {
			sums[s.PaymentMethod] = sums[s.PaymentMethod].Add(s.Total)
		}
	}
	return sums, nil
}

func (r *fakeSessionRepo) ListClosedSessions(_ context.Context, page, limit int) ([]model.CashSession, int64, error) {
	var closed []model.CashSession
	for _, s := range r.sessions {
		if s.Status == model.SessionClosed {
			closed = append(closed, *s)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		return closed[i].OpenedAt.After(closed[j].OpenedAt)
	})
	total := int64(len(closed))
	start := (page - 1) * limit
	if start >= len(closed) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(closed) {
		end = len(closed)
	}
	return closed[start:end], total, nil
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

// ── Products ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
	saleRefs map[uuid.UUID]int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		saleRefs: make(map[uuid.UUID]int64),
	}
}

// add seeds a product and returns its id.
func (r *fakeProductRepo) add(p model.Product) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = &p
	return p.ID
}

func (r *fakeProductRepo) DB() *gorm.DB { return nil }

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *fakeProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountSaleReferences(_ context.Context, id uuid.UUID) (int64, error) {
	return r.saleRefs[id], nil
}

func (r *fakeProductRepo) ListBelowMinStock(context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Stock <= p.MinStock {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *fakeProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *fakeProductRepo) UpdateCostPriceTx(_ *gorm.DB, id uuid.UUID, cost decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CostPrice = cost
	return nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

// ── Sales ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *fakeSaleRepo) DB() *gorm.DB { return nil }

func (r *fakeSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (r *fakeSaleRepo) MarkReversedTx(_ *gorm.DB, id uuid.UUID, reason string, at time.Time) (int64, error) {
	s, ok := r.sales[id]
	if !ok || s.Status != model.SaleCompleted {
		return 0, nil
	}
	s.Status = model.SaleReversed
	s.ReversalReason = &reason
	s.ReversedAt = &at
	return 1, nil
}

func (r *fakeSaleRepo) NextTicketTx(*gorm.DB) (int, error) {
	max := 0
	for _, s := range r.sales {
		if s.Ticket > max {
			max = s.Ticket
		}
	}
	return max + 1, nil
}

func (r *fakeSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

// ── Stock movements ──────────────────────────────────────────────────────────

type fakeStockMovementRepo struct {
	movements []model.StockMovement
}

func (r *fakeStockMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeStockMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeStockMovementRepo) List(context.Context, int, int) ([]model.StockMovement, int64, error) {
	return append([]model.StockMovement(nil), r.movements...), int64(len(r.movements)), nil
}

var _ repository.StockMovementRepository = (*fakeStockMovementRepo)(nil)

// ── Settings ─────────────────────────────────────────────────────────────────

type fakeSettingsRepo struct {
	settings model.StoreSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: model.StoreSettings{ID: 1, StockControl: true}}
}

func (r *fakeSettingsRepo) Get(context.Context) (*model.StoreSettings, error) {
	cp := r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *model.StoreSettings) error {
	r.settings = *s
	r.settings.ID = 1
	return nil
}

var _ repository.SettingsRepository = (*fakeSettingsRepo)(nil)

// ── Suppliers ────────────────────────────────────────────────────────────────

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *fakeSupplierRepo) add(s model.Supplier) uuid.UUID {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = &s
	return s.ID
}

func (r *fakeSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) List(context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if s, ok := r.suppliers[id]; ok {
		s.Active = false
	}
	return nil
}

var _ repository.SupplierRepository = (*fakeSupplierRepo)(nil)

// ── Purchases ────────────────────────────────────────────────────────────────

type fakePurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase)}
}

func (r *fakePurchaseRepo) DB() *gorm.DB { return nil }

func (r *fakePurchaseRepo) Create(_ context.Context, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PurchaseID = p.ID
	}
	cp := *p
	cp.Items = append([]model.PurchaseItem(nil), p.Items...)
	r.purchases[p.ID] = &cp
	return nil
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Items = append([]model.PurchaseItem(nil), p.Items...)
	return &cp, nil
}

func (r *fakePurchaseRepo) List(_ context.Context, status string, _, _ int) ([]model.Purchase, int64, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		if status != "" && status != "all" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePurchaseRepo) MarkReceivedTx(_ *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	p, ok := r.purchases[id]
	if !ok || p.Status != model.PurchasePending {
		return 0, nil
	}
	p.Status = model.PurchaseReceived
	p.ReceivedAt = &at
	return 1, nil
}

func (r *fakePurchaseRepo) MarkCancelled(_ context.Context, id uuid.UUID) (int64, error) {
	p, ok := r.purchases[id]
	if !ok || p.Status != model.PurchasePending {
		return 0, nil
	}
	p.Status = model.PurchaseCancelled
	return 1, nil
}

var _ repository.PurchaseRepository = (*fakePurchaseRepo)(nil)

// ── Reports ──────────────────────────────────────────────────────────────────

type reportSale struct {
	at    time.Time
	total decimal.Decimal
}

type reportRow struct {
	at  time.Time
	row repository.ProfitRow
}

type fakeReportRepo struct {
	sales []reportSale
	rows  []reportRow
}

func (r *fakeReportRepo) SalesTotals(_ context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	var count int64
	total := decimal.Zero
	for _, s := range r.sales {
		if !s.at.Before(from) && s.at.Before(to) {
			count++
			total = total.Add(s.total)
		}
	}
	return count, total, nil
}

func (r *fakeReportRepo) ProfitRows(_ context.Context, from, to time.Time) ([]repository.ProfitRow, error) {
	var out []repository.ProfitRow
	for _, rr := range r.rows {
		if !rr.at.Before(from) && rr.at.Before(to) {
			out = append(out, rr.row)
		}
	}
	return out, nil
}

var _ repository.ReportRepository = (*fakeReportRepo)(nil)
