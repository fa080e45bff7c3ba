package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	mongorepo "github.com/dislogroup/salesflow/internal/repositories/mongo"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type AssistantHandler struct {
	assistant services.AssistantService
	intake    services.IntakeService
	audit     mongorepo.InteractionRepo
}

func NewAssistantHandler(assistant services.AssistantService, intake services.IntakeService, audit mongorepo.InteractionRepo) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, intake: intake, audit: audit}
}

type QueryRequest struct {
	Query string `json:"query"`
}

type ResultResponse struct {
	Result string `json:"result"`
}

// PlaceOrder turns a free-form order sentence into a persisted order.
// Business failures come back as a 200 with an error marker in the result;
// only a missing query is a client error.
func (h *AssistantHandler) PlaceOrder(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AssistantHandler.PlaceOrder", "le champ 'query' est obligatoire", err))
		return
	}

	result := h.intake.PlaceOrder(c.Request.Context(), username, req.Query)
	c.JSON(http.StatusOK, ResultResponse{Result: result})
}

// Ask answers a grounded question. Upstream overload surfaces as 503 with a
// suggested retry interval, upstream faults as 502.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AssistantHandler.Ask", "le champ 'query' est obligatoire", err))
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), optionalUsername(c), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResultResponse{Result: answer})
}

// History returns the caller's recent audited AI exchanges, newest first.
func (h *AssistantHandler) History(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := h.audit.ListByIdentity(c.Request.Context(), username, limit)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "AssistantHandler.History", "failed to list interactions", err))
		return
	}
	c.JSON(http.StatusOK, rows)
}
