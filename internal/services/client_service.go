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

type ClientService interface {
	Create(ctx context.Context, c *models.Client, routeID int64) (*models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	ListByVendeur(ctx context.Context, vendeurID int64) ([]models.Client, error)
	Update(ctx context.Context, id int64, c *models.Client) (*models.Client, error)
	Delete(ctx context.Context, id int64) error
	// ResolveByName maps a free-text mention to the canonical record.
	ResolveByName(ctx context.Context, name string) (*models.Client, error)
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type clientService struct {
	clients pgrepo.ClientRepo
	routes  pgrepo.RouteRepo
}

func NewClientService(clients pgrepo.ClientRepo, routes pgrepo.RouteRepo) ClientService {
	return &clientService{clients: clients, routes: routes}
}

func (s *clientService) Create(ctx context.Context, c *models.Client, routeID int64) (*models.Client, error) {
	const op = "ClientService.Create"

	if strings.TrimSpace(c.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "le nom du client est obligatoire", nil)
	}

	// Two records folding to the same lookup key would make name resolution
	// ambiguous, so the collision is rejected here at ingestion.
	exists, err := s.clients.NormalizedNameExists(ctx, c.Name, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check name uniqueness", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "un client avec un nom equivalent existe deja", nil)
	}

	if err := s.clients.Create(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create client", err)
	}

	if routeID > 0 {
		if _, err := s.routes.GetByID(ctx, routeID); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, fmt.Sprintf("route introuvable : %d", routeID), err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to load route", err)
		}
		if err := s.routes.AddClient(ctx, routeID, c); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to attach client to route", err)
		}
	}
	return c, nil
}

func (s *clientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	const op = "ClientService.Get"

	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "client introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get client", err)
	}
	return c, nil
}

func (s *clientService) List(ctx context.Context) ([]models.Client, error) {
	const op = "ClientService.List"

	rows, err := s.clients.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list clients", err)
	}
	return rows, nil
}

func (s *clientService) ListByVendeur(ctx context.Context, vendeurID int64) ([]models.Client, error) {
	const op = "ClientService.ListByVendeur"

	rows, err := s.clients.ListByVendeur(ctx, vendeurID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list clients by vendeur", err)
	}
	return rows, nil
}

func (s *clientService) Update(ctx context.Context, id int64, in *models.Client) (*models.Client, error) {
	const op = "ClientService.Update"

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && utils.NormalizeName(in.Name) != utils.NormalizeName(existing.Name) {
		exists, err := s.clients.NormalizedNameExists(ctx, in.Name, id)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to check name uniqueness", err)
		}
		if exists {
			return nil, utils.E(utils.CodeConflict, op, "un client avec un nom equivalent existe deja", nil)
		}
		existing.Name = in.Name
	}
	existing.Phone = in.Phone
	existing.Email = in.Email
	existing.Address = in.Address
	existing.Type = in.Type
	if in.LastVisit != nil {
		existing.LastVisit = in.LastVisit
	}

	if err := s.clients.Update(ctx, existing); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update client", err)
	}
	return existing, nil
}

func (s *clientService) Delete(ctx context.Context, id int64) error {
	const op = "ClientService.Delete"

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete client", err)
	}
	return nil
}

func (s *clientService) ResolveByName(ctx context.Context, name string) (*models.Client, error) {
	const op = "ClientService.ResolveByName"

	c, err := s.clients.FindByNormalizedName(ctx, name)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, fmt.Sprintf("client introuvable : %s", strings.TrimSpace(name)), err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve client", err)
	}
	return c, nil
}

func (s *clientService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.clients.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Clients :")
	for _, c := range rows {
		b.WriteString(fmt.Sprintf("\n- %s (%s, %s)", c.Name, c.Type, c.Address))
	}
	return b.String(), nil
}
