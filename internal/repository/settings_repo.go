package repository

import (
	"context"

	"tiendapos/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the singleton settings row, creating it with defaults on
	// first access.
	Get(ctx context.Context) (*model.StoreSettings, error)
	Update(ctx context.Context, s *model.StoreSettings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.StoreSettings, error) {
	s := model.StoreSettings{ID: 1}
	err := r.db.WithContext(ctx).FirstOrCreate(&s, model.StoreSettings{ID: 1}).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Update(ctx context.Context, s *model.StoreSettings) error {
	s.ID = 1
	return r.db.WithContext(ctx).Save(s).Error
}
