package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type SearchHandler struct {
	products services.ProductService
}

func NewSearchHandler(products services.ProductService) *SearchHandler {
	return &SearchHandler{products: products}
}

// Products ranks the whole catalog against the query text, closest first.
func (h *SearchHandler) Products(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SearchHandler.Products", "le parametre 'query' est obligatoire", nil))
		return
	}

	ranked, err := h.products.SearchBySemanticSimilarity(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ranked)
}
