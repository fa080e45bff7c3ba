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

type VisitService interface {
	Create(ctx context.Context, v *models.Visit) (*models.Visit, error)
	List(ctx context.Context) ([]models.Visit, error)
	ListForVendeur(ctx context.Context, vendeurID int64) ([]models.Visit, error)
	ListUpcoming(ctx context.Context, limit int) ([]models.Visit, error)
	Reschedule(ctx context.Context, id int64, newDate time.Time) (*models.Visit, error)
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type visitService struct {
	visits pgrepo.VisitRepo
}

func NewVisitService(visits pgrepo.VisitRepo) VisitService {
	return &visitService{visits: visits}
}

func (s *visitService) Create(ctx context.Context, v *models.Visit) (*models.Visit, error) {
	const op = "VisitService.Create"

	if v.ClientID == 0 || v.VendeurID == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "client et vendeur obligatoires", nil)
	}
	if v.Status == "" {
		v.Status = models.VisitStatusPlanned
	}
	if err := s.visits.Create(ctx, v); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create visit", err)
	}
	return v, nil
}

func (s *visitService) List(ctx context.Context) ([]models.Visit, error) {
	const op = "VisitService.List"

	rows, err := s.visits.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list visits", err)
	}
	return rows, nil
}

func (s *visitService) ListForVendeur(ctx context.Context, vendeurID int64) ([]models.Visit, error) {
	const op = "VisitService.ListForVendeur"

	rows, err := s.visits.ListByVendeur(ctx, vendeurID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list visits for vendeur", err)
	}
	return rows, nil
}

func (s *visitService) ListUpcoming(ctx context.Context, limit int) ([]models.Visit, error) {
	const op = "VisitService.ListUpcoming"

	rows, err := s.visits.ListUpcoming(ctx, time.Now().UTC(), limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list upcoming visits", err)
	}
	return rows, nil
}

func (s *visitService) Reschedule(ctx context.Context, id int64, newDate time.Time) (*models.Visit, error) {
	const op = "VisitService.Reschedule"

	v, err := s.visits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "visite introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load visit", err)
	}

	v.Date = newDate
	v.Status = models.VisitStatusReported
	if err := s.visits.Update(ctx, v); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reschedule visit", err)
	}
	return v, nil
}

func (s *visitService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.visits.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Visites :")
	for _, v := range rows {
		client := "?"
		if v.Client != nil {
			client = v.Client.Name
		}
		b.WriteString(fmt.Sprintf("\n- %s chez %s (%s)", v.Date.Format("2006-01-02"), client, v.Status))
	}
	return b.String(), nil
}
