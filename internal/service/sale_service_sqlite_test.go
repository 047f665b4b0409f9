package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sqliteStack wires the real repositories and services over an on-disk
// SQLite database. The connection pool is capped at one connection, exactly
// as in production, so these tests catch queries that escape the transaction
// they belong to and starve on the pool.
type sqliteStack struct {
	db          *gorm.DB
	sessionRepo repository.SessionRepository
	productRepo repository.ProductRepository
	sessionSvc  SessionService
	saleSvc     SaleService
}

func newSqliteStack(t *testing.T) *sqliteStack {
	t.Helper()

	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)

	sessionRepo := repository.NewSessionRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	stockMovRepo := repository.NewStockMovementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	sessionSvc := NewSessionService(sessionRepo)
	saleSvc := NewSaleService(saleRepo, productRepo, stockMovRepo, sessionRepo, sessionSvc, settingsRepo)

	return &sqliteStack{
		db:          db,
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		sessionSvc:  sessionSvc,
		saleSvc:     saleSvc,
	}
}

// TestReverseCashSaleOnSQLite drives the full reversal path against the real
// database: open drawer, cash sale, reverse. The reversal transaction holds
// the pool's only connection, so every read it needs has to run on the
// transaction itself; a stray pool read here blocks forever. The watchdog
// turns that hang into a test failure instead of a suite timeout.
func TestReverseCashSaleOnSQLite(t *testing.T) {
	s := newSqliteStack(t)
	ctx := context.Background()

	session, err := s.sessionSvc.Open(ctx, dto.OpenSessionRequest{
		OpeningFloat: decimal.NewFromInt(1000),
		Operator:     "maria",
	})
	require.NoError(t, err)

	product := model.Product{
		Barcode:   "7790001001234",
		Name:      "Cola 2L",
		SalePrice: decimal.NewFromFloat(25.50),
		CostPrice: decimal.NewFromFloat(15),
		Stock:     10,
		MinStock:  2,
		Category:  "drinks",
		Unit:      "unit",
		Active:    true,
	}
	require.NoError(t, s.productRepo.Create(ctx, &product))

	pid := product.ID.String()
	sale, err := s.saleSvc.Process(ctx, dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: pid, Quantity: 2}},
		PaymentMethod: model.PaymentCash,
		SessionID:     &session.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "51", sale.Total.String())

	done := make(chan error, 1)
	go func() {
		done <- s.saleSvc.Reverse(ctx, uuid.MustParse(sale.ID), "wrong item scanned")
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("reversal did not complete; a query inside the transaction is starving on the connection pool")
	}

	got, err := s.saleSvc.Get(ctx, uuid.MustParse(sale.ID))
	require.NoError(t, err)
	assert.Equal(t, model.SaleReversed, got.Status)

	// Stock restored.
	p, err := s.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)

	// Compensating withdrawal lands in the session's ledger.
	movs, err := s.sessionRepo.ListMovements(ctx, uuid.MustParse(session.ID))
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovementWithdrawal, movs[0].Kind)
	assert.True(t, movs[0].Amount.Equal(sale.Total))

	// The reversed sale no longer counts as a cash sale and the refund shows
	// up as a withdrawal: 1000 + 0 - 51.
	summary, err := s.sessionSvc.Summary(ctx, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, "949", summary.ExpectedCash.String())
}

// TestReverseCardSaleOnSQLite covers the branch that reads the session but
// records no movement: card money never entered the drawer.
func TestReverseCardSaleOnSQLite(t *testing.T) {
	s := newSqliteStack(t)
	ctx := context.Background()

	session, err := s.sessionSvc.Open(ctx, dto.OpenSessionRequest{
		OpeningFloat: decimal.NewFromInt(500),
		Operator:     "maria",
	})
	require.NoError(t, err)

	product := model.Product{
		Barcode: "779", Name: "Cola", SalePrice: decimal.NewFromInt(30),
		Stock: 4, Unit: "unit", Category: "drinks", Active: true,
	}
	require.NoError(t, s.productRepo.Create(ctx, &product))

	pid := product.ID.String()
	sale, err := s.saleSvc.Process(ctx, dto.ProcessSaleRequest{
		Lines:         []dto.SaleLineRequest{{ProductID: pid, Quantity: 1}},
		PaymentMethod: model.PaymentCard,
		SessionID:     &session.ID,
	})
	require.NoError(t, err)

	require.NoError(t, s.saleSvc.Reverse(ctx, uuid.MustParse(sale.ID), "customer changed their mind"))

	movs, err := s.sessionRepo.ListMovements(ctx, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Empty(t, movs)
}
