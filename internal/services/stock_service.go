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

type StockService interface {
	// ViewOwn returns the acting user's truck stock. Gated by capability,
	// not by user kind.
	ViewOwn(ctx context.Context, actor *models.User) (*models.TruckStock, error)
	EnsureForVendeur(ctx context.Context, vendeur *models.User) (*models.TruckStock, error)
	Load(ctx context.Context, actor *models.User, stockID, productID int64, quantity int) (int, error)
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type stockService struct {
	stocks   pgrepo.StockRepo
	products pgrepo.ProductRepo
	users    pgrepo.UserRepo
}

func NewStockService(stocks pgrepo.StockRepo, products pgrepo.ProductRepo, users pgrepo.UserRepo) StockService {
	return &stockService{stocks: stocks, products: products, users: users}
}

func (s *stockService) ViewOwn(ctx context.Context, actor *models.User) (*models.TruckStock, error) {
	const op = "StockService.ViewOwn"

	if actor == nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "aucun utilisateur connecte", nil)
	}
	if !actor.Role.Can(models.CapViewOwnTruckStock) {
		return nil, utils.E(utils.CodeForbidden, op, "acces interdit au stock camion", nil)
	}

	st, err := s.stocks.GetByChauffeur(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// first access provisions an empty truck stock
			if actor.Role == models.RoleVendeurDirect {
				return s.EnsureForVendeur(ctx, actor)
			}
			return nil, utils.E(utils.CodeNotFound, op, "aucun stock trouve pour ce vendeur", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load truck stock", err)
	}
	return st, nil
}

func (s *stockService) EnsureForVendeur(ctx context.Context, vendeur *models.User) (*models.TruckStock, error) {
	const op = "StockService.EnsureForVendeur"

	if vendeur == nil || vendeur.Role != models.RoleVendeurDirect {
		return nil, utils.E(utils.CodeInvalidArgument, op, "seul un vendeur direct possede un stock camion", nil)
	}

	st, err := s.stocks.GetByChauffeur(ctx, vendeur.ID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load truck stock", err)
	}

	st = &models.TruckStock{ChauffeurID: vendeur.ID}
	if err := s.stocks.Create(ctx, st); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create truck stock", err)
	}
	return st, nil
}

func (s *stockService) Load(ctx context.Context, actor *models.User, stockID, productID int64, quantity int) (int, error) {
	const op = "StockService.Load"

	if actor == nil {
		return 0, utils.E(utils.CodeUnauthorized, op, "aucun utilisateur connecte", nil)
	}
	if !actor.Role.Can(models.CapLoadTruckStock) {
		return 0, utils.E(utils.CodeForbidden, op, "seuls les vendeurs ou responsables peuvent charger du stock", nil)
	}
	if quantity <= 0 {
		return 0, utils.E(utils.CodeInvalidArgument, op, "la quantite doit etre positive", nil)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return 0, utils.E(utils.CodeNotFound, op, "produit introuvable", err)
		}
		return 0, utils.E(utils.CodeInternal, op, "failed to load product", err)
	}

	st, err := s.stocks.GetByID(ctx, stockID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return 0, utils.E(utils.CodeNotFound, op, "stock introuvable", err)
		}
		return 0, utils.E(utils.CodeInternal, op, "failed to load truck stock", err)
	}

	// A vendeur only loads their own truck; responsables load any.
	if actor.Role == models.RoleVendeurDirect && st.ChauffeurID != actor.ID {
		return 0, utils.E(utils.CodeForbidden, op, "vous ne pouvez charger que votre propre stock", nil)
	}

	level, err := s.stocks.AdjustLevel(ctx, st.ID, productID, quantity)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to adjust stock level", err)
	}
	return level, nil
}

func (s *stockService) SummarizeForGrounding(ctx context.Context) (string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Stocks camion :")
	for _, u := range users {
		if u.Role != models.RoleVendeurDirect {
			continue
		}
		st, err := s.stocks.GetByChauffeur(ctx, u.ID)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n- Camion de %s :", u.FullName))
		for _, lvl := range st.Levels {
			name := fmt.Sprintf("produit %d", lvl.ProductID)
			if lvl.Product != nil {
				name = lvl.Product.Name
			}
			b.WriteString(fmt.Sprintf(" %s x%d;", name, lvl.Quantity))
		}
	}
	return b.String(), nil
}
