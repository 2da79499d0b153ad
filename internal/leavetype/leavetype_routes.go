package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("",
			middleware.RBACAuthorize(rbacService, "leavetype", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)
		types.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leavetype", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetById,
		)
		types.POST("",
			middleware.RBACAuthorize(rbacService, "leavetype", "create"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Create,
		)
		types.PUT("/:id",
			middleware.RBACAuthorize(rbacService, "leavetype", "create"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Update,
		)
	}
}
