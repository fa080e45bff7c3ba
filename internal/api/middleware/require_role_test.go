package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dislogroup/salesflow/internal/models"
)

func guardedStatus(t *testing.T, role string, guard gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	return w.Code
}

func TestRequireRoleAdmitsListedRoles(t *testing.T) {
	guard := RequireRole(models.RoleAdmin, models.RoleSuperviseur)

	assert.Equal(t, http.StatusOK, guardedStatus(t, "admin", guard))
	assert.Equal(t, http.StatusOK, guardedStatus(t, "superviseur", guard))
	assert.Equal(t, http.StatusForbidden, guardedStatus(t, "prevendeur", guard))
}

func TestRequireRoleRejectsMissingOrUnknownRole(t *testing.T) {
	guard := RequireRole(models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, guardedStatus(t, "", guard))
	assert.Equal(t, http.StatusForbidden, guardedStatus(t, "directeur", guard))
}

func TestRequireCapabilityFollowsRoleGrants(t *testing.T) {
	guard := RequireCapability(models.CapLoadTruckStock)

	assert.Equal(t, http.StatusOK, guardedStatus(t, "vendeur_direct", guard))
	assert.Equal(t, http.StatusOK, guardedStatus(t, "responsable_unite", guard))
	assert.Equal(t, http.StatusOK, guardedStatus(t, "admin", guard))
	assert.Equal(t, http.StatusForbidden, guardedStatus(t, "prevendeur", guard))
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, guardedStatus(t, "admin", RequireAdmin()))
	assert.Equal(t, http.StatusForbidden, guardedStatus(t, "superviseur", RequireAdmin()))
}
