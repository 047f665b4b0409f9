package dto

import "github.com/shopspring/decimal"

// ProductProfit is one entry of the top-profitable-products ranking.
type ProductProfit struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Profit    decimal.Decimal `json:"profit"`
}

// ProfitSummary covers [From, To) plus a comparison against the
// immediately-preceding window of equal length.
type ProfitSummary struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	TicketAverage decimal.Decimal `json:"ticket_average"`
	ItemsPerSale  decimal.Decimal `json:"items_per_sale"`
	TopProducts   []ProductProfit `json:"top_products"`

	PreviousTotalSales decimal.Decimal `json:"previous_total_sales"`
	SalesChangePercent decimal.Decimal `json:"sales_change_percent"`
}
