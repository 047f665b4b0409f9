package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type ReportService interface {
	// ProfitSummary aggregates completed sales in [from, to) and compares
	// total sales against the immediately-preceding window of equal length.
	ProfitSummary(ctx context.Context, from, to time.Time) (*dto.ProfitSummary, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

// Profit per line is unit price minus the product's CURRENT cost price, not a
// snapshot at sale time. Historical figures therefore shift when cost prices
// are edited later; see DESIGN.md.
func (s *reportService) ProfitSummary(ctx context.Context, from, to time.Time) (*dto.ProfitSummary, error) {
	if !to.After(from) {
		return nil, errors.New("date range is empty")
	}

	saleCount, totalSales, err := s.repo.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ProfitRows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type acc struct {
		name     string
		quantity int
		profit   decimal.Decimal
	}
	byProduct := make(map[uuid.UUID]*acc)

	totalProfit := decimal.Zero
	totalItems := 0
	for _, row := range rows {
		qty := decimal.NewFromInt(int64(row.Quantity))
		lineProfit := row.UnitPrice.Sub(row.CostPrice).Mul(qty)
		totalProfit = totalProfit.Add(lineProfit)
		totalItems += row.Quantity

		a, ok := byProduct[row.ProductID]
		if !ok {
			a = &acc{name: row.ProductName}
			byProduct[row.ProductID] = a
		}
		a.quantity += row.Quantity
		a.profit = a.profit.Add(lineProfit)
	}

	summary := &dto.ProfitSummary{
		From:        from.Format("2006-01-02"),
		To:          to.Format("2006-01-02"),
		TotalSales:  totalSales,
		TotalProfit: totalProfit,
	}

	if totalSales.IsPositive() {
		summary.MarginPercent = totalProfit.Div(totalSales).Mul(hundred).Round(2)
	}
	if saleCount > 0 {
		count := decimal.NewFromInt(saleCount)
		summary.TicketAverage = totalSales.Div(count).Round(2)
		summary.ItemsPerSale = decimal.NewFromInt(int64(totalItems)).Div(count).Round(2)
	}

	// Top 5 products by accumulated profit.
	top := make([]dto.ProductProfit, 0, len(byProduct))
	for id, a := range byProduct {
		top = append(top, dto.ProductProfit{
			ProductID: id.String(),
			Name:      a.name,
			Quantity:  a.quantity,
			Profit:    a.profit,
		})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Profit.GreaterThan(top[j].Profit) })
	if len(top) > 5 {
		top = top[:5]
	}
	summary.TopProducts = top

	// Previous window of equal length, immediately preceding [from, to).
	window := to.Sub(from)
	_, prevTotal, err := s.repo.SalesTotals(ctx, from.Add(-window), from)
	if err != nil {
		return nil, err
	}
	summary.PreviousTotalSales = prevTotal
	if prevTotal.IsPositive() {
		summary.SalesChangePercent = totalSales.Sub(prevTotal).Div(prevTotal).Mul(hundred).Round(2)
	}

	return summary, nil
}
