package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	models.User
	Password string `json:"motDePasse"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UserHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.users.Create(c.Request.Context(), &req.User, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *UserHandler) List(c *gin.Context) {
	rows, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type assignSuperviseurRequest struct {
	SuperviseurID int64 `json:"superviseurId"`
}

// AssignSuperviseur attaches a vendeur (path id) to a superviseur.
func (h *UserHandler) AssignSuperviseur(c *gin.Context) {
	const op = "UserHandler.AssignSuperviseur"

	id, ok := pathID(c, op)
	if !ok {
		return
	}

	var req assignSuperviseurRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SuperviseurID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "le champ 'superviseurId' est obligatoire", err))
		return
	}

	row, err := h.users.AssignVendeur(c.Request.Context(), id, req.SuperviseurID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
