package dto

import "github.com/shopspring/decimal"

type UpdateSettingsRequest struct {
	StoreName     string          `json:"store_name"     validate:"required,min=2"`
	TicketMessage string          `json:"ticket_message"`
	TaxRate       decimal.Decimal `json:"tax_rate"       validate:"min=0"`
	ApplyTax      bool            `json:"apply_tax"`
	StockControl  bool            `json:"stock_control"`
	AutoPrint     bool            `json:"auto_print"`
}

type SettingsResponse struct {
	StoreName     string          `json:"store_name"`
	TicketMessage string          `json:"ticket_message"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ApplyTax      bool            `json:"apply_tax"`
	StockControl  bool            `json:"stock_control"`
	AutoPrint     bool            `json:"auto_print"`
}
