package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("",
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)
		employees.GET("/:id",
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetById,
		)
		employees.POST("",
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Create,
		)
		employees.PUT("/:id",
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Update,
		)
		employees.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, "employee", "delete"),
			middleware.RateLimitByUser(0.1, 1),
			handler.Delete,
		)
	}
}
