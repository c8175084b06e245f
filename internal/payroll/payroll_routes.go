package payroll

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMiddleware gin.HandlerFunc,
	rdb *redis.Client,
) {
	payroll := r.Group("/payroll")
	payroll.Use(authMiddleware)

	runs := payroll.Group("/runs")
	{
		runs.POST("",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionWrite),
			middleware.Idempotency(rdb),
			handler.CreateRun,
		)
		runs.POST("/async",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionWrite),
			middleware.Idempotency(rdb),
			handler.RequestRun,
		)
		runs.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.ListRuns)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.GetRun)
		runs.POST("/:id/aggregate", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionWrite), handler.Aggregate)
		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionDelete), handler.DeleteRun)
	}

	payslips := payroll.Group("/payslips")
	payslips.Use(middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionReadOwn))
	{
		payslips.GET("/:userId", handler.ListPayslips)
		payslips.GET("/:userId/entries/:entryId/pdf", middleware.RateLimitByUser(1, 3), handler.DownloadPayslipPDF)
	}

	payroll.GET("/reports/summary",
		middleware.RBACAuthorize(rbacService, rbac.ResourceReport, rbac.ActionRead),
		handler.Summary,
	)
}
