package service

import (
	"context"

	"tiendapos/internal/dto"
	"tiendapos/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		StoreName:     cfg.StoreName,
		TicketMessage: cfg.TicketMessage,
		TaxRate:       cfg.TaxRate,
		ApplyTax:      cfg.ApplyTax,
		StockControl:  cfg.StockControl,
		AutoPrint:     cfg.AutoPrint,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.StoreName = req.StoreName
	cfg.TicketMessage = req.TicketMessage
	cfg.TaxRate = req.TaxRate
	cfg.ApplyTax = req.ApplyTax
	cfg.StockControl = req.StockControl
	cfg.AutoPrint = req.AutoPrint
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}
