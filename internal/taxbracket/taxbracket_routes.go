package taxbracket

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
	brackets := r.Group("/tax-brackets")
	brackets.Use(authMiddleware)
	{
		brackets.GET("",
			middleware.RateLimitByUser(5, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTaxBracket, rbac.ActionRead),
			handler.List,
		)
		brackets.POST("",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTaxBracket, rbac.ActionWrite),
			handler.Publish,
		)
		brackets.POST("/calculate",
			middleware.RateLimitByUser(5, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTaxBracket, rbac.ActionRead),
			handler.Calculate,
		)
	}
}
