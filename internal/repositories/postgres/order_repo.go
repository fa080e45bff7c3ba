package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

type OrderRepo interface {
	// CreateWithLines persists the order aggregate atomically: the order row
	// and every line commit together or not at all.
	CreateWithLines(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Order, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateWithLines(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lines").
		Preload("Lines.Product").
		Where("id = ?", id).
		Take(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &o, err
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lines").
		Order("date_creation DESC").
		Find(&rows).Error
	return rows, err
}

func (r *orderRepo) ListByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("client_id = ?", clientID).
		Order("date_creation DESC").
		Find(&rows).Error
	return rows, err
}
