package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type VisitHandler struct {
	visits services.VisitService
	users  services.UserService
}

func NewVisitHandler(visits services.VisitService, users services.UserService) *VisitHandler {
	return &VisitHandler{visits: visits, users: users}
}

func (h *VisitHandler) Create(c *gin.Context) {
	var in models.Visit
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "VisitHandler.Create", "corps JSON invalide", err))
		return
	}

	row, err := h.visits.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// List returns the full planning for back-office roles and only the caller's
// own visits for a vendeur.
func (h *VisitHandler) List(c *gin.Context) {
	actor, ok := loadActor(c, h.users)
	if !ok {
		return
	}

	var rows []models.Visit
	var err error
	if actor.Role.IsVendeur() {
		rows, err = h.visits.ListForVendeur(c.Request.Context(), actor.ID)
	} else {
		rows, err = h.visits.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *VisitHandler) ListUpcoming(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := h.visits.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type rescheduleRequest struct {
	Date string `json:"dateVisite"`
}

func (h *VisitHandler) Reschedule(c *gin.Context) {
	const op = "VisitHandler.Reschedule"

	id, ok := pathID(c, op)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "corps JSON invalide", err))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "date invalide, format attendu yyyy-MM-dd", err))
		return
	}

	row, err := h.visits.Reschedule(c.Request.Context(), id, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
