package dto

import "github.com/shopspring/decimal"

type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"min=0"`
}

type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Lines      []PurchaseLineRequest `json:"lines"       validate:"min=1,dive"`
	Notes      *string               `json:"notes"`
}

type PurchaseItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	Supplier   string                 `json:"supplier"`
	Items      []PurchaseItemResponse `json:"items"`
	Total      decimal.Decimal        `json:"total"`
	Status     string                 `json:"status"`
	Notes      *string                `json:"notes"`
	CreatedAt  string                 `json:"created_at"`
	ReceivedAt *string                `json:"received_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type SupplierRequest struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Active  bool    `json:"active"`
}
