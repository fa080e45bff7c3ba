package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type VisitRepo interface {
	Create(ctx context.Context, v *models.Visit) error
	GetByID(ctx context.Context, id int64) (*models.Visit, error)
	List(ctx context.Context) ([]models.Visit, error)
	ListByVendeur(ctx context.Context, vendeurID int64) ([]models.Visit, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Visit, error)
	Update(ctx context.Context, v *models.Visit) error
}

type visitRepo struct {
	db *gorm.DB
}

func NewVisitRepo(db *gorm.DB) VisitRepo {
	return &visitRepo{db: db}
}

func (r *visitRepo) Create(ctx context.Context, v *models.Visit) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *visitRepo) GetByID(ctx context.Context, id int64) (*models.Visit, error) {
	var v models.Visit
	err := r.db.WithContext(ctx).Preload("Client").Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &v, err
}

func (r *visitRepo) List(ctx context.Context) ([]models.Visit, error) {
	var rows []models.Visit
	err := r.db.WithContext(ctx).Preload("Client").Order("date_visite ASC").Find(&rows).Error
	return rows, err
}

func (r *visitRepo) ListByVendeur(ctx context.Context, vendeurID int64) ([]models.Visit, error) {
	var rows []models.Visit
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("vendeur_id = ?", vendeurID).
		Order("date_visite ASC").
		Find(&rows).Error
	return rows, err
}

func (r *visitRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Visit, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.Visit
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("date_visite >= ? AND statut = ?", from, models.VisitStatusPlanned).
		Order("date_visite ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *visitRepo) Update(ctx context.Context, v *models.Visit) error {
	return r.db.WithContext(ctx).Save(v).Error
}
