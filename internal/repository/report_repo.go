package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfitRow is one sale line joined with its product's CURRENT cost price.
// Profit figures therefore shift when cost prices are edited later; see the
// reporting notes in DESIGN.md.
type ProfitRow struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	CostPrice   decimal.Decimal
}

type ReportRepository interface {
	// SalesTotals returns the count and summed total of completed sales in
	// [from, to).
	SalesTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error)
	// ProfitRows returns every line of every completed sale in [from, to).
	ProfitRows(ctx context.Context, from, to time.Time) ([]ProfitRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.SaleCompleted, from, to).
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return row.Count, row.Total, nil
}

func (r *reportRepo) ProfitRows(ctx context.Context, from, to time.Time) ([]ProfitRow, error) {
	var rows []ProfitRow
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select(`sale_items.product_id AS product_id,
			products.name AS product_name,
			sale_items.quantity AS quantity,
			sale_items.unit_price AS unit_price,
			products.cost_price AS cost_price`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.status = ? AND sales.created_at >= ? AND sales.created_at < ?",
			model.SaleCompleted, from, to).
		Scan(&rows).Error
	return rows, err
}
