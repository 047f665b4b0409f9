package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseService mirrors the sale flow for inbound stock: a purchase is
// created pending, then either received (stock increments, cost prices
// refresh) or cancelled. Both transitions are one-shot.
type PurchaseService interface {
	Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	Receive(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, status string, page, limit int) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	repo      repository.PurchaseRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	stockMovs repository.StockMovementRepository
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	stockMovs repository.StockMovementRepository,
) PurchaseService {
	return &purchaseService{repo: repo, suppliers: suppliers, products: products, stockMovs: stockMovs}
}

func (s *purchaseService) Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	purchase := &model.Purchase{
		SupplierID: supplierID,
		Status:     model.PurchasePending,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
	}
	total := decimal.Zero
	for _, line := range req.Lines {
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalid: %w", err)
		}
		if _, err := s.products.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		subtotal := line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		purchase.Items = append(purchase.Items, model.PurchaseItem{
			ProductID: pid,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			Subtotal:  subtotal,
		})
	}
	purchase.Total = total

	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return s.Get(ctx, purchase.ID)
}

// Receive increments each line's product stock in one transaction and
// refreshes the product's cost price with the received unit cost. The status
// flip is a compare-and-set so a repeated receive cannot double-increment.
func (s *purchaseService) Receive(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	if purchase.Status != model.PurchasePending {
		return nil, ErrPurchaseNotPending
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.MarkReceivedTx(tx, id, time.Now())
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrPurchaseNotPending
		}

		for _, item := range purchase.Items {
			p, err := s.products.FindByIDTx(tx, item.ProductID)
			if err != nil {
				return err
			}
			if err := s.products.UpdateStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := s.products.UpdateCostPriceTx(tx, item.ProductID, item.UnitCost); err != nil {
				return err
			}
			purchaseRef := purchase.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Kind:        model.StockPurchaseReceipt,
				Quantity:    item.Quantity,
				StockBefore: p.Stock,
				StockAfter:  p.Stock + item.Quantity,
				Reason:      "Purchase receipt",
				ReferenceID: &purchaseRef,
				CreatedAt:   time.Now(),
			}
			if err := s.stockMovs.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, id)
}

func (s *purchaseService) Cancel(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.MarkCancelled(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either missing or already received/cancelled.
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return ErrPurchaseNotFound
		}
		return ErrPurchaseNotPending
	}
	return nil
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) List(ctx context.Context, status string, page, limit int) (*dto.PurchaseListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	purchases, total, err := s.repo.List(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		data = append(data, *purchaseToResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.PurchaseItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			Subtotal:  item.Subtotal,
		})
	}
	supplierName := ""
	if p.Supplier != nil {
		supplierName = p.Supplier.Name
	}
	resp := &dto.PurchaseResponse{
		ID:         p.ID.String(),
		SupplierID: p.SupplierID.String(),
		Supplier:   supplierName,
		Items:      items,
		Total:      p.Total,
		Status:     p.Status,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
	if p.ReceivedAt != nil {
		t := p.ReceivedAt.Format(time.RFC3339)
		resp.ReceivedAt = &t
	}
	return resp
}
