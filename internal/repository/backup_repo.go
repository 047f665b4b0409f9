package repository

import (
	"context"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"gorm.io/gorm"
)

// BackupRepository serializes and restores the full database content for the
// backup collaborator.
type BackupRepository interface {
	ExportAll(ctx context.Context) (*dto.Snapshot, error)
	// ImportAll replaces the content of every table with the snapshot's,
	// in one transaction — either the whole restore lands or none of it.
	ImportAll(ctx context.Context, snap *dto.Snapshot) error
}

type backupRepo struct{ db *gorm.DB }

func NewBackupRepository(db *gorm.DB) BackupRepository { return &backupRepo{db: db} }

func (r *backupRepo) ExportAll(ctx context.Context) (*dto.Snapshot, error) {
	snap := &dto.Snapshot{ExportedAt: time.Now()}
	db := r.db.WithContext(ctx)

	for _, step := range []error{
		db.Find(&snap.Products).Error,
		db.Find(&snap.Sales).Error,
		db.Find(&snap.SaleItems).Error,
		db.Find(&snap.CashSessions).Error,
		db.Find(&snap.CashMovements).Error,
		db.Find(&snap.StockMovements).Error,
		db.Find(&snap.Suppliers).Error,
		db.Find(&snap.Purchases).Error,
		db.Find(&snap.PurchaseItems).Error,
		db.Find(&snap.Users).Error,
	} {
		if step != nil {
			return nil, step
		}
	}

	var settings model.StoreSettings
	if err := db.First(&settings, "id = 1").Error; err == nil {
		snap.Settings = &settings
	}
	return snap, nil
}

func (r *backupRepo) ImportAll(ctx context.Context, snap *dto.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first on delete, parents first on insert.
		for _, m := range []interface{}{
			&model.CashMovement{}, &model.SaleItem{}, &model.StockMovement{},
			&model.PurchaseItem{}, &model.Sale{}, &model.Purchase{},
			&model.CashSession{}, &model.Product{}, &model.Supplier{},
			&model.User{}, &model.StoreSettings{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}

		if len(snap.Suppliers) > 0 {
			if err := tx.Create(&snap.Suppliers).Error; err != nil {
				return err
			}
		}
		if len(snap.Products) > 0 {
			if err := tx.Create(&snap.Products).Error; err != nil {
				return err
			}
		}
		if len(snap.CashSessions) > 0 {
			if err := tx.Create(&snap.CashSessions).Error; err != nil {
				return err
			}
		}
		if len(snap.Sales) > 0 {
			if err := tx.Omit("Items").Create(&snap.Sales).Error; err != nil {
				return err
			}
		}
		if len(snap.SaleItems) > 0 {
			if err := tx.Create(&snap.SaleItems).Error; err != nil {
				return err
			}
		}
		if len(snap.CashMovements) > 0 {
			if err := tx.Create(&snap.CashMovements).Error; err != nil {
				return err
			}
		}
		if len(snap.StockMovements) > 0 {
			if err := tx.Create(&snap.StockMovements).Error; err != nil {
				return err
			}
		}
		if len(snap.Purchases) > 0 {
			if err := tx.Omit("Items").Create(&snap.Purchases).Error; err != nil {
				return err
			}
		}
		if len(snap.PurchaseItems) > 0 {
			if err := tx.Create(&snap.PurchaseItems).Error; err != nil {
				return err
			}
		}
		if len(snap.Users) > 0 {
			if err := tx.Create(&snap.Users).Error; err != nil {
				return err
			}
		}
		if snap.Settings != nil {
			if err := tx.Create(snap.Settings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
