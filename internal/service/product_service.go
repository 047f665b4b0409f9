package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const priceCacheTTL = 5 * time.Minute

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// Delete hard-deletes only when no historical sale line references the
	// product; otherwise it deactivates and reports deleted=false.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Reactivate(ctx context.Context, id uuid.UUID) error
	// LookupByBarcode is the price-check read used by sale-line entry,
	// cached in Redis when a client is configured.
	LookupByBarcode(ctx context.Context, barcode string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client // nil disables the price cache
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByBarcode(ctx, req.Barcode); err == nil {
		return nil, ErrBarcodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Product{
		Barcode:     req.Barcode,
		Name:        req.Name,
		Description: req.Description,
		Category:    defaultStr(req.Category, "general"),
		Brand:       req.Brand,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        defaultStr(req.Unit, "unit"),
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Category = defaultStr(req.Category, p.Category)
	p.Brand = req.Brand
	p.CostPrice = req.CostPrice
	p.SalePrice = req.SalePrice
	p.MinStock = req.MinStock
	p.Unit = defaultStr(req.Unit, p.Unit)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePrice(ctx, p.Barcode)
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	refs, err := s.repo.CountSaleReferences(ctx, id)
	if err != nil {
		return false, err
	}
	if refs > 0 {
		if err := s.repo.Deactivate(ctx, id); err != nil {
			return false, err
		}
		s.invalidatePrice(ctx, p.Barcode)
		return false, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	s.invalidatePrice(ctx, p.Barcode)
	return true, nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *productService) LookupByBarcode(ctx context.Context, barcode string) (*dto.PriceLookupResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, priceCacheKey(barcode)).Result(); err == nil {
			var resp dto.PriceLookupResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	resp := &dto.PriceLookupResponse{
		Barcode:   p.Barcode,
		Name:      p.Name,
		SalePrice: p.SalePrice,
		Unit:      p.Unit,
	}
	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, priceCacheKey(barcode), data, priceCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("barcode", barcode).Msg("price cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) invalidatePrice(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, priceCacheKey(barcode)).Err(); err != nil {
		log.Debug().Err(err).Str("barcode", barcode).Msg("price cache invalidation failed")
	}
}

func priceCacheKey(barcode string) string { return "price:" + barcode }

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Active:      p.Active,
	}
}
