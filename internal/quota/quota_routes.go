package quota

import (
	"leavehub/internal/middleware"
	"leavehub/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	quotas := r.Group("/leave-quotas")
	quotas.Use(middleware.AuthMiddleware())
	{
		quotas.GET("",
			middleware.RBACAuthorize(rbacService, "quota", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetByEmployee,
		)
		quotas.POST("/employees/:id/provision",
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			middleware.RateLimitByUser(0.2, 1),
			handler.Provision,
		)
	}
}
