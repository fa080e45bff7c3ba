package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type PromotionHandler struct {
	promotions services.PromotionService
}

func NewPromotionHandler(promotions services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

func (h *PromotionHandler) Create(c *gin.Context) {
	var in models.Promotion
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PromotionHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.promotions.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "PromotionHandler.Get")
	if !ok {
		return
	}

	row, err := h.promotions.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *PromotionHandler) List(c *gin.Context) {
	rows, err := h.promotions.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GiftsForProduct lists the active gift promotions whose condition product
// matches the given name.
func (h *PromotionHandler) GiftsForProduct(c *gin.Context) {
	name := strings.TrimSpace(c.Query("produit"))
	if name == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PromotionHandler.GiftsForProduct", "le parametre 'produit' est obligatoire", nil))
		return
	}

	rows, err := h.promotions.ListGiftsForProduct(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
