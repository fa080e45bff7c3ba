package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dislogroup/salesflow/internal/models"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
	"github.com/dislogroup/salesflow/internal/utils"
)

type RouteService interface {
	Create(ctx context.Context, rt *models.Route) (*models.Route, error)
	Get(ctx context.Context, id int64) (*models.Route, error)
	List(ctx context.Context) ([]models.Route, error)
	AssignVendeur(ctx context.Context, routeID int64, vendeur *models.User) error
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type routeService struct {
	routes pgrepo.RouteRepo
}

func NewRouteService(routes pgrepo.RouteRepo) RouteService {
	return &routeService{routes: routes}
}

func (s *routeService) Create(ctx context.Context, rt *models.Route) (*models.Route, error) {
	const op = "RouteService.Create"

	if strings.TrimSpace(rt.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "le nom de la route est obligatoire", nil)
	}
	if err := s.routes.Create(ctx, rt); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create route", err)
	}
	return rt, nil
}

func (s *routeService) Get(ctx context.Context, id int64) (*models.Route, error) {
	const op = "RouteService.Get"

	rt, err := s.routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "route introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get route", err)
	}
	return rt, nil
}

func (s *routeService) List(ctx context.Context) ([]models.Route, error) {
	const op = "RouteService.List"

	rows, err := s.routes.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list routes", err)
	}
	return rows, nil
}

func (s *routeService) AssignVendeur(ctx context.Context, routeID int64, vendeur *models.User) error {
	const op = "RouteService.AssignVendeur"

	if vendeur == nil || !vendeur.Role.IsVendeur() {
		return utils.E(utils.CodeInvalidArgument, op, "l'utilisateur n'est pas un vendeur", nil)
	}
	if _, err := s.Get(ctx, routeID); err != nil {
		return err
	}
	if err := s.routes.AddVendeur(ctx, routeID, vendeur); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to assign vendeur to route", err)
	}
	return nil
}

func (s *routeService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.routes.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Routes :")
	for _, rt := range rows {
		b.WriteString(fmt.Sprintf("\n- %s (secteur %s, %d clients)", rt.Name, rt.Sector, len(rt.Clients)))
	}
	return b.String(), nil
}
