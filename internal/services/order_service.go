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

type OrderService interface {
	// Create persists a fully-built pending order atomically and assigns
	// its identity. The aggregate must arrive complete: a resolved client,
	// at least one line, all prices snapshotted.
	Create(ctx context.Context, o *models.Order, vendeur *models.User) (*models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Order, error)
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type orderService struct {
	orders pgrepo.OrderRepo
}

func NewOrderService(orders pgrepo.OrderRepo) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) Create(ctx context.Context, o *models.Order, vendeur *models.User) (*models.Order, error) {
	const op = "OrderService.Create"

	if vendeur == nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "aucun utilisateur connecte", nil)
	}
	if o.ClientID == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "la commande doit referencer un client", nil)
	}
	if len(o.Lines) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "la commande ne contient aucune ligne", nil)
	}
	for _, l := range o.Lines {
		if l.Quantity <= 0 {
			return nil, utils.E(utils.CodeInvalidArgument, op, "quantite invalide sur une ligne", nil)
		}
	}

	o.VendeurID = vendeur.ID
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}

	if err := s.orders.CreateWithLines(ctx, o); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create order", err)
	}
	return o, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	const op = "OrderService.Get"

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "commande introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get order", err)
	}
	return o, nil
}

func (s *orderService) List(ctx context.Context) ([]models.Order, error) {
	const op = "OrderService.List"

	rows, err := s.orders.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list orders", err)
	}
	return rows, nil
}

func (s *orderService) ListByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	const op = "OrderService.ListByClient"

	rows, err := s.orders.ListByClient(ctx, clientID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list orders by client", err)
	}
	return rows, nil
}

func (s *orderService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.orders.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Commandes :")
	for _, o := range rows {
		client := "?"
		if o.Client != nil {
			client = o.Client.Name
		}
		b.WriteString(fmt.Sprintf("\n- Commande %d pour %s (%s), livraison le %s, total %.2f DH",
			o.ID, client, o.Status, o.DeliveryDate.Format("2006-01-02"), o.Total()))
	}
	return b.String(), nil
}
