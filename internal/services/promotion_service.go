package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dislogroup/salesflow/internal/models"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
	"github.com/dislogroup/salesflow/internal/utils"
)

type PromotionService interface {
	Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error)
	Get(ctx context.Context, id int64) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	ListGiftsForProduct(ctx context.Context, productName string) ([]models.Promotion, error)
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type promotionService struct {
	promotions pgrepo.PromotionRepo
}

func NewPromotionService(promotions pgrepo.PromotionRepo) PromotionService {
	return &promotionService{promotions: promotions}
}

func (s *promotionService) Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	const op = "PromotionService.Create"

	if p.Type != models.PromotionTypeReduction && p.Type != models.PromotionTypeCadeau {
		return nil, utils.E(utils.CodeInvalidArgument, op, "type de promotion inconnu", nil)
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "la date de fin precede la date de debut", nil)
	}
	if p.Type == models.PromotionTypeCadeau && (p.ConditionProductID == nil || p.GiftProductID == nil) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "une promotion cadeau exige un produit condition et un produit cadeau", nil)
	}

	if err := s.promotions.Create(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create promotion", err)
	}
	return p, nil
}

func (s *promotionService) Get(ctx context.Context, id int64) (*models.Promotion, error) {
	const op = "PromotionService.Get"

	p, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "promotion introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get promotion", err)
	}
	return p, nil
}

func (s *promotionService) List(ctx context.Context) ([]models.Promotion, error) {
	const op = "PromotionService.List"

	rows, err := s.promotions.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list promotions", err)
	}
	return rows, nil
}

func (s *promotionService) ListGiftsForProduct(ctx context.Context, productName string) ([]models.Promotion, error) {
	const op = "PromotionService.ListGiftsForProduct"

	rows, err := s.promotions.ListGiftsByConditionProductName(ctx, productName)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list gift promotions", err)
	}
	return rows, nil
}

func (s *promotionService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.promotions.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Promotions en cours :")
	for _, p := range rows {
		b.WriteString(fmt.Sprintf("\n- %s (%s, jusqu'au %s)", p.Description, p.Type, p.EndDate.Format("2006-01-02")))
	}
	return b.String(), nil
}
