package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float" validate:"min=0"`
	Operator     string          `json:"operator"`
}

type RecordMovementRequest struct {
	SessionID string          `json:"session_id" validate:"required,uuid"`
	Kind      string          `json:"kind"       validate:"required,oneof=income expense withdrawal deposit"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Concept   string          `json:"concept"    validate:"required,min=3"`
}

type CloseSessionRequest struct {
	SessionID   string          `json:"session_id"   validate:"required,uuid"`
	CountedCash decimal.Decimal `json:"counted_cash" validate:"min=0"`
	Notes       *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID           string           `json:"id"`
	Operator     string           `json:"operator"`
	OpeningFloat decimal.Decimal  `json:"opening_float"`
	ExpectedCash *decimal.Decimal `json:"expected_cash"`
	CountedCash  *decimal.Decimal `json:"counted_cash"`
	Variance     *decimal.Decimal `json:"variance"`
	Status       string           `json:"status"`
	Notes        *string          `json:"notes"`
	OpenedAt     string           `json:"opened_at"`
	ClosedAt     *string          `json:"closed_at"`
}

// SessionSummary aggregates the session's sales by payment method and its
// manual movements. Only cash sales move physical drawer cash.
type SessionSummary struct {
	SessionID        string          `json:"session_id"`
	OpeningFloat     decimal.Decimal `json:"opening_float"`
	CashSales        decimal.Decimal `json:"cash_sales"`
	CardSales        decimal.Decimal `json:"card_sales"`
	TransferSales    decimal.Decimal `json:"transfer_sales"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	CreatedAt string          `json:"created_at"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
