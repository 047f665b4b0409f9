package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Purchase, int64, error)
	// MarkReceivedTx flips status pending→received; returns rows updated so
	// the caller can detect a repeated receive (compare-and-set).
	MarkReceivedTx(tx *gorm.DB, id uuid.UUID, at time.Time) (int64, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).Preload("Items.Product").Preload("Supplier").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context, status string, page, limit int) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{})
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items.Product").Preload("Supplier").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) MarkReceivedTx(tx *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	res := tx.Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, model.PurchasePending).
		Updates(map[string]interface{}{"status": model.PurchaseReceived, "received_at": at})
	return res.RowsAffected, res.Error
}

func (r *purchaseRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, model.PurchasePending).
		Update("status", model.PurchaseCancelled)
	return res.RowsAffected, res.Error
}
