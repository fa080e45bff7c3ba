package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type RouteHandler struct {
	routes services.RouteService
	users  services.UserService
}

func NewRouteHandler(routes services.RouteService, users services.UserService) *RouteHandler {
	return &RouteHandler{routes: routes, users: users}
}

func (h *RouteHandler) Create(c *gin.Context) {
	var in models.Route
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RouteHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.routes.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *RouteHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "RouteHandler.Get")
	if !ok {
		return
	}

	row, err := h.routes.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *RouteHandler) List(c *gin.Context) {
	rows, err := h.routes.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type assignVendeurRequest struct {
	VendeurID int64 `json:"vendeurId"`
}

func (h *RouteHandler) AssignVendeur(c *gin.Context) {
	const op = "RouteHandler.AssignVendeur"

	id, ok := pathID(c, op)
	if !ok {
		return
	}

	var req assignVendeurRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VendeurID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "le champ 'vendeurId' est obligatoire", err))
		return
	}

	vendeur, err := h.users.Get(c.Request.Context(), req.VendeurID)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.routes.AssignVendeur(c.Request.Context(), id, vendeur); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
