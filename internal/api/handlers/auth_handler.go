package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"nomUtilisateur"`
	Password string `json:"motDePasse"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"utilisateur"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "corps JSON invalide", err))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}
