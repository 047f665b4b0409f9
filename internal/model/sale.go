package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale status values. A reversed sale keeps its row for history; reversal
// effects (stock restore, compensating cash movement) are recorded elsewhere.
const (
	SaleCompleted = "completed"
	SaleReversed  = "reversed"
)

// Payment methods.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Sale records a checkout. Total always equals the sum of its items'
// subtotals. SessionID is null when the sale happened with no open drawer.
type Sale struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Ticket        int        `gorm:"uniqueIndex;not null"`
	SessionID     *uuid.UUID `gorm:"type:uuid;index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	Status        string          `gorm:"type:varchar(10);not null;default:'completed';index"`
	ReversalReason *string
	CreatedAt     time.Time
	ReversedAt    *time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SaleItem is immutable once created. UnitPrice is the product's sale price
// snapshotted at sale time — later price edits do not touch it.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (i *SaleItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
