package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dislogroup/salesflow/internal/models"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
	"github.com/dislogroup/salesflow/internal/utils"
)

const tokenLifetime = 12 * time.Hour

type AuthService interface {
	// Login verifies the credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

type authService struct {
	users  pgrepo.UserRepo
	secret []byte
}

func NewAuthService(users pgrepo.UserRepo, secret string) AuthService {
	return &authService{users: users, secret: []byte(secret)}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	const op = "AuthService.Login"

	if username == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "nom d'utilisateur et mot de passe obligatoires", nil)
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "identifiants invalides", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "identifiants invalides", nil)
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  u.Username,
		"role": string(u.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return u, token, nil
}
