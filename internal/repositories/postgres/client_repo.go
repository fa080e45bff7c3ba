package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type ClientRepo interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	ListByVendeur(ctx context.Context, vendeurID int64) ([]models.Client, error)
	// FindByNormalizedName resolves a free-text mention: exact match after
	// trimming and case-folding, nothing fuzzier.
	FindByNormalizedName(ctx context.Context, name string) (*models.Client, error)
	NormalizedNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id int64) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepo {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Preload("Routes").Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *clientRepo) List(ctx context.Context) ([]models.Client, error) {
	var rows []models.Client
	err := r.db.WithContext(ctx).Order("nom ASC").Find(&rows).Error
	return rows, err
}

func (r *clientRepo) ListByVendeur(ctx context.Context, vendeurID int64) ([]models.Client, error) {
	var rows []models.Client
	err := r.db.WithContext(ctx).
		Distinct("clients.*").
		Joins("JOIN route_clients rc ON rc.client_id = clients.id").
		Joins("JOIN route_vendeurs rv ON rv.route_id = rc.route_id").
		Where("rv.user_id = ?", vendeurID).
		Find(&rows).Error
	return rows, err
}

func (r *clientRepo) FindByNormalizedName(ctx context.Context, name string) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).
		Where("nom_norm = ?", utils.NormalizeName(name)).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *clientRepo) NormalizedNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("nom_norm = ? AND id <> ?", utils.NormalizeName(name), excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *clientRepo) Update(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}
