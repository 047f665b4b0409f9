package service

import (
	"context"
	"testing"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	sales     *fakeSaleRepo
	products  *fakeProductRepo
	stockMovs *fakeStockMovementRepo
	sessions  *fakeSessionRepo
	settings  *fakeSettingsRepo
	svc       SaleService
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		sales:     newFakeSaleRepo(),
		products:  newFakeProductRepo(),
		stockMovs: &fakeStockMovementRepo{},
		sessions:  newFakeSessionRepo(),
		settings:  newFakeSettingsRepo(),
	}
	sessionSvc := NewSessionService(f.sessions)
	f.svc = NewSaleService(f.sales, f.products, f.stockMovs, f.sessions, sessionSvc, f.settings)
	return f
}

func (f *saleFixture) seedProduct(name string, price float64, stock int) uuid.UUID {
	return f.products.add(model.Product{
		Barcode:   name,
		Name:      name,
		SalePrice: decimal.NewFromFloat(price),
		CostPrice: decimal.NewFromFloat(price / 2),
		Stock:     stock,
		Active:    true,
	})
}

func TestProcessSale(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 25.50, 10)
	chips := f.seedProduct("chips", 18, 4)

	resp, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: cola.String(), Quantity: 2},
			{ProductID: chips.String(), Quantity: 1},
		},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Ticket)
	assert.Equal(t, model.SaleCompleted, resp.Status)
	// Total equals the sum of line subtotals: 2×25.50 + 18
	assert.Equal(t, "69", resp.Total.String())
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "51", resp.Items[0].Subtotal.String())

	// Stock decremented and audited.
	p, _ := f.products.FindByID(context.Background(), cola)
	assert.Equal(t, 8, p.Stock)
	require.Len(t, f.stockMovs.movements, 2)
	assert.Equal(t, model.StockSale, f.stockMovs.movements[0].Kind)
	assert.Equal(t, -2, f.stockMovs.movements[0].Quantity)
	assert.Equal(t, 10, f.stockMovs.movements[0].StockBefore)
	assert.Equal(t, 8, f.stockMovs.movements[0].StockAfter)
}

func TestProcessSaleTicketsIncrement(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 100)

	line := []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 1}}
	first, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{Lines: line, PaymentMethod: model.PaymentCash})
	require.NoError(t, err)
	second, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{Lines: line, PaymentMethod: model.PaymentCard})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Ticket)
	assert.Equal(t, 2, second.Ticket)
}

func TestProcessSaleEmptyCart(t *testing.T) {
	f := newSaleFixture()

	_, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestProcessSaleInsufficientStock(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)

	_, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 6}},
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing committed: no sale, no stock change, no movements.
	p, _ := f.products.FindByID(context.Background(), cola)
	assert.Equal(t, 5, p.Stock)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.stockMovs.movements)
}

func TestProcessSaleRepeatedLinesAccumulate(t *testing.T) {
	// Two lines of the same product must not each pass the stock check
	// independently.
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)

	_, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: cola.String(), Quantity: 3},
			{ProductID: cola.String(), Quantity: 3},
		},
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestProcessSaleInactiveProduct(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)
	require.NoError(t, f.products.Deactivate(context.Background(), cola))

	_, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestProcessSaleStockControlDisabled(t *testing.T) {
	f := newSaleFixture()
	f.settings.settings.StockControl = false
	cola := f.seedProduct("cola", 10, 2)

	// Oversell allowed, stock untouched, no movement rows.
	resp, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 5}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "50", resp.Total.String())

	p, _ := f.products.FindByID(context.Background(), cola)
	assert.Equal(t, 2, p.Stock)
	assert.Empty(t, f.stockMovs.movements)
}

func TestProcessSaleWithClosedSession(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)

	sessionSvc := NewSessionService(f.sessions)
	opened, err := sessionSvc.Open(context.Background(), dto.OpenSessionRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	_, err = sessionSvc.Close(context.Background(), dto.CloseSessionRequest{
		SessionID:   opened.ID,
		CountedCash: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	_, err = f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
		SessionID:     &opened.ID,
	})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestReverseSale(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)

	sessionSvc := NewSessionService(f.sessions)
	opened, err := sessionSvc.Open(context.Background(), dto.OpenSessionRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	resp, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 2}},
		PaymentMethod: model.PaymentCash,
		SessionID:     &opened.ID,
	})
	require.NoError(t, err)
	saleID := uuid.MustParse(resp.ID)

	err = f.svc.Reverse(context.Background(), saleID, "customer returned the items")
	require.NoError(t, err)

	// Stock restored with a reversal audit row.
	p, _ := f.products.FindByID(context.Background(), cola)
	assert.Equal(t, 5, p.Stock)
	require.Len(t, f.stockMovs.movements, 2)
	assert.Equal(t, model.StockSaleReversal, f.stockMovs.movements[1].Kind)
	assert.Equal(t, 2, f.stockMovs.movements[1].Quantity)

	// Sale row kept, status flipped.
	sale, err := f.sales.FindByID(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleReversed, sale.Status)
	require.NotNil(t, sale.ReversalReason)
	assert.Equal(t, "customer returned the items", *sale.ReversalReason)

	// Compensating withdrawal keeps the open session's expected cash right.
	var withdrawal *model.CashMovement
	for i := range f.sessions.movements {
		if f.sessions.movements[i].Kind == model.MovementWithdrawal {
			withdrawal = &f.sessions.movements[i]
		}
	}
	require.NotNil(t, withdrawal)
	assert.Equal(t, "20", withdrawal.Amount.String())
	require.NotNil(t, withdrawal.ReferenceID)
	assert.Equal(t, saleID, *withdrawal.ReferenceID)
}

func TestReverseSaleTwice(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)

	resp, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 2}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	saleID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Reverse(context.Background(), saleID, "cashier mistake"))
	err = f.svc.Reverse(context.Background(), saleID, "cashier mistake")
	assert.ErrorIs(t, err, ErrSaleAlreadyReversed)

	// Stock restored exactly once.
	p, _ := f.products.FindByID(context.Background(), cola)
	assert.Equal(t, 5, p.Stock)
}

func TestReverseCardSaleAddsNoCashMovement(t *testing.T) {
	f := newSaleFixture()
	cola := f.seedProduct("cola", 10, 5)

	sessionSvc := NewSessionService(f.sessions)
	opened, err := sessionSvc.Open(context.Background(), dto.OpenSessionRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	resp, err := f.svc.Process(context.Background(), dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: cola.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCard,
		SessionID:     &opened.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Reverse(context.Background(), uuid.MustParse(resp.ID), "wrong item scanned"))

	// Card money never entered the drawer — no compensating movement.
	assert.Empty(t, f.sessions.movements)
}

func TestReverseUnknownSale(t *testing.T) {
	f := newSaleFixture()
	err := f.svc.Reverse(context.Background(), uuid.New(), "no such sale")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestGetSaleNotFound(t *testing.T) {
	f := newSaleFixture()
	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSaleNotFound)
}
