package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type OrderHandler struct {
	orders services.OrderService
	users  services.UserService
}

func NewOrderHandler(orders services.OrderService, users services.UserService) *OrderHandler {
	return &OrderHandler{orders: orders, users: users}
}

// Create persists a structured order built by the client app. The free-text
// path goes through the assistant endpoint instead.
func (h *OrderHandler) Create(c *gin.Context) {
	vendeur, ok := loadActor(c, h.users)
	if !ok {
		return
	}

	var in models.Order
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "OrderHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.orders.Create(c.Request.Context(), &in, vendeur)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "OrderHandler.Get")
	if !ok {
		return
	}

	row, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *OrderHandler) List(c *gin.Context) {
	rows, err := h.orders.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *OrderHandler) ListByClient(c *gin.Context) {
	id, ok := pathID(c, "OrderHandler.ListByClient")
	if !ok {
		return
	}

	rows, err := h.orders.ListByClient(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
