package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type StockRepo interface {
	Create(ctx context.Context, s *models.TruckStock) error
	GetByID(ctx context.Context, id int64) (*models.TruckStock, error)
	GetByChauffeur(ctx context.Context, chauffeurID int64) (*models.TruckStock, error)
	// AdjustLevel adds delta to the product's level, creating the row at
	// delta when absent. Runs in one transaction.
	AdjustLevel(ctx context.Context, stockID, productID int64, delta int) (int, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepo {
	return &stockRepo{db: db}
}

func (r *stockRepo) Create(ctx context.Context, s *models.TruckStock) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stockRepo) GetByID(ctx context.Context, id int64) (*models.TruckStock, error) {
	var s models.TruckStock
	err := r.db.WithContext(ctx).
		Preload("Levels").
		Preload("Levels.Product").
		Where("id = ?", id).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *stockRepo) GetByChauffeur(ctx context.Context, chauffeurID int64) (*models.TruckStock, error) {
	var s models.TruckStock
	err := r.db.WithContext(ctx).
		Preload("Levels").
		Preload("Levels.Product").
		Where("chauffeur_id = ?", chauffeurID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *stockRepo) AdjustLevel(ctx context.Context, stockID, productID int64, delta int) (int, error) {
	var updated int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var level models.TruckStockLevel
		err := tx.Where("stock_id = ? AND produit_id = ?", stockID, productID).Take(&level).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			level = models.TruckStockLevel{StockID: stockID, ProductID: productID, Quantity: delta}
			if err := tx.Create(&level).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			level.Quantity += delta
			if err := tx.Save(&level).Error; err != nil {
				return err
			}
		}
		updated = level.Quantity
		return nil
	})
	return updated, err
}
