package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type StockHandler struct {
	stocks services.StockService
	users  services.UserService
}

func NewStockHandler(stocks services.StockService, users services.UserService) *StockHandler {
	return &StockHandler{stocks: stocks, users: users}
}

// ViewOwn shows the calling vendeur their own truck stock.
func (h *StockHandler) ViewOwn(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	st, err := h.stocks.ViewOwn(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type loadStockRequest struct {
	ProductID int64 `json:"produitId"`
	Quantity  int   `json:"quantite"`
}

// Load adjusts a stock level; the new quantity is returned.
func (h *StockHandler) Load(c *gin.Context) {
	const op = "StockHandler.Load"

	id, ok := pathID(c, op)
	if !ok {
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req loadStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "les champs 'produitId' et 'quantite' sont obligatoires", err))
		return
	}

	level, err := h.stocks.Load(c.Request.Context(), actor, id, req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"produitId": req.ProductID, "quantite": level})
}

func (h *StockHandler) actor(c *gin.Context) (*models.User, bool) {
	return loadActor(c, h.users)
}
