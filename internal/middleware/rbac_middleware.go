package middleware

import (
	"go-erp/internal/domain"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ActorRole(c)
		if role == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		if !allowed {
			response.FromError(c, apperror.ErrForbidden.WithDetails(map[string]string{
				"required": resource + ":" + action,
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Can lets handlers branch on a permission without aborting, e.g. own-payslip access.
func Can(c *gin.Context, service RBACService, resource, action string) bool {
	allowed, err := service.Enforce(domain.EnforceRequest{
		Role:     ActorRole(c),
		Resource: resource,
		Action:   action,
	})
	return err == nil && allowed
}
