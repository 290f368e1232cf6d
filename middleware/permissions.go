package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sharath018/business-directory-backend/internal/auth"
)

// Role groups used when mounting route groups.
var (
	AdminRoles      = []string{auth.RoleSuperAdmin, auth.RoleAdmin}
	SuperAdminRoles = []string{auth.RoleSuperAdmin}
)

// CurrentUser returns the admin loaded by AuthMiddleware.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	u, ok := v.(*auth.User)
	return u, ok
}
