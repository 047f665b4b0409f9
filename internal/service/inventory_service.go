package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService owns stock adjustments outside of sales and purchases,
// plus the advisory availability check used by the cart layer.
type InventoryService interface {
	// AdjustStock applies delta to the product's stock inside a transaction
	// and records an audit movement. Adjustments that would drive stock
	// negative fail with ErrInsufficientStock.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int, reason string) (int, error)
	// CheckAvailability is advisory only — the sale processor re-verifies
	// inside its own transaction at commit time.
	CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
	Alerts(ctx context.Context) ([]dto.StockAlertResponse, error)
	ListMovements(ctx context.Context, page, limit int) (*dto.StockMovementListResponse, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	stockMovs repository.StockMovementRepository
}

func NewInventoryService(products repository.ProductRepository, stockMovs repository.StockMovementRepository) InventoryService {
	return &inventoryService{products: products, stockMovs: stockMovs}
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, reason string) (int, error) {
	var newStock int
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDTx(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		newStock = p.Stock + delta
		if newStock < 0 {
			return ErrInsufficientStock
		}
		if err := s.products.UpdateStockTx(tx, productID, delta); err != nil {
			return err
		}
		mov := &model.StockMovement{
			ProductID:   productID,
			Kind:        model.StockManualAdjust,
			Quantity:    delta,
			StockBefore: p.Stock,
			StockAfter:  newStock,
			Reason:      reason,
			CreatedAt:   time.Now(),
		}
		return s.stockMovs.CreateTx(tx, mov)
	})
	if txErr != nil {
		return 0, txErr
	}
	return newStock, nil
}

func (s *inventoryService) CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}
	return p.Active && p.Stock >= quantity, nil
}

// Alerts lists active products at or below their minimum stock threshold.
func (s *inventoryService) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	products, err := s.products.ListBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlertResponse, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, dto.StockAlertResponse{
			ProductID: p.ID.String(),
			Barcode:   p.Barcode,
			Name:      p.Name,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
		})
	}
	return alerts, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, page, limit int) (*dto.StockMovementListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	movements, total, err := s.stockMovs.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		name := ""
		if m.Product != nil {
			name = m.Product.Name
		}
		data = append(data, dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Product:     name,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
