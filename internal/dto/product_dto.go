package dto

import "github.com/shopspring/decimal"

type ProductFilter struct {
	Active   string `form:"active"` // "false" | "all" | default: active only
	Barcode  string `form:"barcode"`
	Name     string `form:"name"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Barcode     string          `json:"barcode"    validate:"required,min=3"`
	Name        string          `json:"name"       validate:"required,min=2"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Brand       *string         `json:"brand"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"min=0"`
	SalePrice   decimal.Decimal `json:"sale_price" validate:"min=0"`
	Stock       int             `json:"stock"      validate:"min=0"`
	MinStock    int             `json:"min_stock"  validate:"min=0"`
	Unit        string          `json:"unit"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name"       validate:"required,min=2"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Brand       *string         `json:"brand"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"min=0"`
	SalePrice   decimal.Decimal `json:"sale_price" validate:"min=0"`
	MinStock    int             `json:"min_stock"  validate:"min=0"`
	Unit        string          `json:"unit"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Brand       *string         `json:"brand"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	Unit        string          `json:"unit"`
	Active      bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceLookupResponse is the payload of the barcode price check endpoint.
type PriceLookupResponse struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Unit      string          `json:"unit"`
}
