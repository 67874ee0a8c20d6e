package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/models"
)

// RequireRole 检查用户是否具有指定的角色
func RequireRole(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRoleKey)
		if role == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		for _, allowed := range allowedRoles {
			if models.Role(role) == allowed {
				c.Next()
				return
			}
		}

		common.RespondErrorAbort(c, http.StatusForbidden, "Access denied. You do not have the required role to access this resource.")
	}
}

// Staff 任意后台角色
func Staff() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin, models.RoleContentSupport)
}

// AdminOnly 仅管理员
func AdminOnly() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
