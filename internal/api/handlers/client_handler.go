package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type ClientHandler struct {
	clients services.ClientService
	users   services.UserService
}

func NewClientHandler(clients services.ClientService, users services.UserService) *ClientHandler {
	return &ClientHandler{clients: clients, users: users}
}

type createClientRequest struct {
	models.Client
	RouteID int64 `json:"routeId"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ClientHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.clients.Create(c.Request.Context(), &req.Client, req.RouteID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "ClientHandler.Get")
	if !ok {
		return
	}

	row, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// List returns every client for back-office roles, and only the clients on
// the caller's routes for a vendeur.
func (h *ClientHandler) List(c *gin.Context) {
	actor, ok := loadActor(c, h.users)
	if !ok {
		return
	}

	var rows []models.Client
	var err error
	if actor.Role.IsVendeur() {
		rows, err = h.clients.ListByVendeur(c.Request.Context(), actor.ID)
	} else {
		rows, err = h.clients.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "ClientHandler.Update")
	if !ok {
		return
	}

	var in models.Client
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ClientHandler.Update", "corps JSON invalide", err))
		return
	}

	row, err := h.clients.Update(c.Request.Context(), id, &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "ClientHandler.Delete")
	if !ok {
		return
	}

	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id segment shared by the CRUD handlers.
func pathID(c *gin.Context, op string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "identifiant invalide", err))
		return 0, false
	}
	return id, true
}
