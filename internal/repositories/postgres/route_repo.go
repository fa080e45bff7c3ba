package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type RouteRepo interface {
	Create(ctx context.Context, rt *models.Route) error
	GetByID(ctx context.Context, id int64) (*models.Route, error)
	List(ctx context.Context) ([]models.Route, error)
	AddClient(ctx context.Context, routeID int64, c *models.Client) error
	AddVendeur(ctx context.Context, routeID int64, u *models.User) error
}

type routeRepo struct {
	db *gorm.DB
}

func NewRouteRepo(db *gorm.DB) RouteRepo {
	return &routeRepo{db: db}
}

func (r *routeRepo) Create(ctx context.Context, rt *models.Route) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *routeRepo) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	var rt models.Route
	err := r.db.WithContext(ctx).
		Preload("Clients").
		Preload("Vendeurs").
		Where("id = ?", id).
		Take(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &rt, err
}

func (r *routeRepo) List(ctx context.Context) ([]models.Route, error) {
	var rows []models.Route
	err := r.db.WithContext(ctx).Preload("Clients").Order("nom ASC").Find(&rows).Error
	return rows, err
}

func (r *routeRepo) AddClient(ctx context.Context, routeID int64, c *models.Client) error {
	return r.db.WithContext(ctx).
		Model(&models.Route{ID: routeID}).
		Association("Clients").
		Append(c)
}

func (r *routeRepo) AddVendeur(ctx context.Context, routeID int64, u *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.Route{ID: routeID}).
		Association("Vendeurs").
		Append(u)
}
