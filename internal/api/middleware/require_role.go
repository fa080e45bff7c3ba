package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/utils"
)

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, apiError{
		Code:    utils.CodeForbidden,
		Message: "forbidden",
	})
}

// contextRole reads the role claim set by the JWT middleware. A value outside
// the closed role set means a stale or forged token and never passes.
func contextRole(c *gin.Context) (models.Role, bool) {
	role := models.Role(c.GetString("role"))
	return role, role.Valid()
}

// RequireRole admits only the listed roles.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	allow := make(map[models.Role]struct{}, len(allowed))
	for _, a := range allowed {
		allow[a] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := contextRole(c)
		if !ok {
			forbid(c)
			return
		}
		if _, ok := allow[role]; !ok {
			forbid(c)
			return
		}
		c.Next()
	}
}

// RequireCapability admits every role the capability table grants cap to.
func RequireCapability(cap models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := contextRole(c)
		if !ok || !role.Can(cap) {
			forbid(c)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }
