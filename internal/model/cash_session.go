package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Session status values.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Cash movement kinds. Income and deposits add to the expected drawer cash,
// expenses and withdrawals subtract.
const (
	MovementIncome     = "income"
	MovementExpense    = "expense"
	MovementWithdrawal = "withdrawal"
	MovementDeposit    = "deposit"
)

// CashSession is the period between opening and closing the cash drawer.
// At most one session has Status=open at any time. Closing fields stay
// null while the session is open; the open→closed transition is one-way.
type CashSession struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Operator     string          `gorm:"not null;default:''"`
	OpeningFloat decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ExpectedCash is computed at close: OpeningFloat + cash sales + deposits − withdrawals
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CountedCash  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Variance     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status       string           `gorm:"type:varchar(10);not null;default:'open';index"`
	Notes        *string
	OpenedAt     time.Time
	ClosedAt     *time.Time

	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}

func (s *CashSession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CashMovement is an immutable entry in the drawer ledger. Movements are
// never updated or deleted — reversals create compensating entries.
type CashMovement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind      string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Concept   string          `gorm:"not null"`
	// ReferenceID links to the originating sale when the movement compensates a reversal
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (m *CashMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
