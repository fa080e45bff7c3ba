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

type UserService interface {
	Create(ctx context.Context, u *models.User, password string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// AssignVendeur attaches a vendeur to a superviseur through the
	// explicit assignment field. Role kinds are checked against the closed
	// role set, nothing is probed or mutated reflectively.
	AssignVendeur(ctx context.Context, vendeurID, superviseurID int64) (*models.User, error)
	SummarizeForGrounding(ctx context.Context) (string, error)
}

type userService struct {
	users pgrepo.UserRepo
}

func NewUserService(users pgrepo.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, u *models.User, password string) (*models.User, error) {
	const op = "UserService.Create"

	if strings.TrimSpace(u.Username) == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "nom d'utilisateur et mot de passe obligatoires", nil)
	}
	if !u.Role.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role inconnu", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	u.PasswordHash = hash

	if err := s.users.Create(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "UserService.Get"

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "utilisateur introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "UserService.GetByUsername"

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "utilisateur introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	const op = "UserService.List"

	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	return rows, nil
}

func (s *userService) AssignVendeur(ctx context.Context, vendeurID, superviseurID int64) (*models.User, error) {
	const op = "UserService.AssignVendeur"

	vendeur, err := s.users.GetByID(ctx, vendeurID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "vendeur introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load vendeur", err)
	}
	if !vendeur.Role.IsVendeur() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "l'utilisateur n'est pas un vendeur", nil)
	}

	superviseur, err := s.users.GetByID(ctx, superviseurID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "superviseur introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load superviseur", err)
	}
	if superviseur.Role != models.RoleSuperviseur {
		return nil, utils.E(utils.CodeInvalidArgument, op, "le responsable doit etre un superviseur", nil)
	}

	vendeur.SuperviseurID = &superviseur.ID
	if err := s.users.Update(ctx, vendeur); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to assign vendeur", err)
	}
	return vendeur, nil
}

func (s *userService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Equipe :")
	for _, u := range rows {
		b.WriteString(fmt.Sprintf("\n- %s (%s)", u.FullName, u.Role))
	}
	return b.String(), nil
}
