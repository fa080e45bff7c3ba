package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type PromotionRepo interface {
	Create(ctx context.Context, p *models.Promotion) error
	GetByID(ctx context.Context, id int64) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error)
	ListGiftsByConditionProductName(ctx context.Context, productName string) ([]models.Promotion, error)
}

type promotionRepo struct {
	db *gorm.DB
}

func NewPromotionRepo(db *gorm.DB) PromotionRepo {
	return &promotionRepo{db: db}
}

func (r *promotionRepo) Create(ctx context.Context, p *models.Promotion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promotionRepo) GetByID(ctx context.Context, id int64) (*models.Promotion, error) {
	var p models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ConditionProduct").
		Preload("GiftProduct").
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *promotionRepo) List(ctx context.Context) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ConditionProduct").
		Preload("GiftProduct").
		Order("date_debut DESC").
		Find(&rows).Error
	return rows, err
}

func (r *promotionRepo) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ConditionProduct").
		Preload("GiftProduct").
		Where("date_debut <= ? AND date_fin >= ?", at, at).
		Find(&rows).Error
	return rows, err
}

func (r *promotionRepo) ListGiftsByConditionProductName(ctx context.Context, productName string) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Preload("GiftProduct").
		Joins("JOIN produits p ON p.id = promotions.produit_condition_id").
		Where("promotions.type = ? AND p.nom_norm = ?",
			models.PromotionTypeCadeau, utils.NormalizeName(productName)).
		Find(&rows).Error
	return rows, err
}
