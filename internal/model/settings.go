package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettings is a singleton row (ID=1) holding store identity and feature
// toggles. The sale processor reads StockControl to decide whether stock is
// decremented on checkout. TaxRate is recorded for the ticket; the current
// checkout flow applies no surcharge.
type StoreSettings struct {
	ID            int    `gorm:"primaryKey"`
	StoreName     string `gorm:"not null;default:'Mi Tienda'"`
	TicketMessage string `gorm:"not null;default:'¡Gracias por su compra!'"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ApplyTax      bool            `gorm:"not null;default:false"`
	StockControl  bool            `gorm:"not null;default:true"`
	AutoPrint     bool            `gorm:"not null;default:false"`
	UpdatedAt     time.Time
}

func (StoreSettings) TableName() string { return "store_settings" }
