package leave

import (
	"leavehub/internal/middleware"
	"leavehub/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)
		leaves.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetByID,
		)
		leaves.PATCH("/:id/decision",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			middleware.RateLimitByUser(1, 5),
			handler.Decide,
		)
		leaves.PATCH("/:id/cancel",
			middleware.RBACAuthorize(rbacService, "leave", "cancel"),
			middleware.RateLimitByUser(1, 5),
			handler.Cancel,
		)
	}
}
