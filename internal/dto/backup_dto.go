package dto

import (
	"time"

	"tiendapos/internal/model"
)

// Snapshot serializes the entire database content for the backup collaborator.
// Produced by ExportAllTables, consumed by ImportAllTables.
type Snapshot struct {
	ExportedAt     time.Time             `json:"exported_at"`
	Products       []model.Product       `json:"products"`
	Sales          []model.Sale          `json:"sales"`
	SaleItems      []model.SaleItem      `json:"sale_items"`
	CashSessions   []model.CashSession   `json:"cash_sessions"`
	CashMovements  []model.CashMovement  `json:"cash_movements"`
	StockMovements []model.StockMovement `json:"stock_movements"`
	Suppliers      []model.Supplier      `json:"suppliers"`
	Purchases      []model.Purchase      `json:"purchases"`
	PurchaseItems  []model.PurchaseItem  `json:"purchase_items"`
	Users          []model.User          `json:"users"`
	Settings       *model.StoreSettings  `json:"settings"`
}
