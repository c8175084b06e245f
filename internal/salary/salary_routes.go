package salary

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMiddleware gin.HandlerFunc,
) {
	records := r.Group("/salary-records")
	records.Use(authMiddleware)
	{
		records.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalary, rbac.ActionRead),
			handler.List,
		)
		records.GET("/resolve",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalary, rbac.ActionRead),
			handler.Resolve,
		)
		records.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalary, rbac.ActionWrite),
			handler.Create,
		)
	}
}
