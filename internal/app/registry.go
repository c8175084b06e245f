package app

import (
	"go-erp/internal/attendance"
	"go-erp/internal/bootstrap"
	"go-erp/internal/employee"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/middleware"
	"go-erp/internal/payroll"
	"go-erp/internal/rbac"
	"go-erp/internal/salary"
	"go-erp/internal/shared/counter"
	"go-erp/internal/taxbracket"

	"github.com/gin-gonic/gin"
)

type Services struct {
	RBAC       rbac.Service
	Salary     salary.Service
	TaxBracket taxbracket.Service
	Payroll    payroll.Service
}

func NewServices(infra *Infra, audit bootstrap.AuditLogger) (*Services, error) {
	db := infra.DB
	cfg := infra.Config

	// --- Repositories ---
	employeeRepo := employee.NewRepository(db)
	salaryRepo := salary.NewRepository(db)
	taxBracketRepo := taxbracket.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	payrollRepo := payroll.NewRepository(db)
	counterRepo := counter.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	rbacService, err := rbac.NewService(infra.Logger)
	if err != nil {
		return nil, err
	}
	salaryService := salary.NewService(db, salaryRepo, employeeRepo, cfg.Payroll.Currency, infra.Logger)
	taxBracketService := taxbracket.NewService(db, taxBracketRepo, infra.Redis, infra.Logger)
	payrollService := payroll.NewService(payroll.Dependencies{
		DB:         db,
		Repo:       payrollRepo,
		Employees:  employeeRepo,
		Salaries:   salaryService,
		Taxes:      taxBracketService,
		Attendance: attendanceRepo,
		Counter:    counterRepo,
		Outbox:     outboxRepo,
		Locker:     payroll.NewPeriodLocker(infra.Redis),
		Audit:      audit,
		Metrics:    infra.Metrics,
		Currency:   cfg.Payroll.Currency,
		Workers:    cfg.Payroll.Workers,
		LockTTL:    cfg.Payroll.LockTTL,
		Logger:     infra.Logger,
	})

	return &Services{
		RBAC:       rbacService,
		Salary:     salaryService,
		TaxBracket: taxBracketService,
		Payroll:    payrollService,
	}, nil
}

func registerModules(router *gin.Engine, infra *Infra, svc *Services) {
	authMiddleware := middleware.AuthMiddleware(infra.Config.JWT.Secret)

	// --- Handlers ---
	salaryHandler := salary.NewHandler(svc.Salary)
	taxBracketHandler := taxbracket.NewHandler(svc.TaxBracket)
	payrollHandler := payroll.NewHandler(svc.Payroll, svc.RBAC, infra.Redis)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		salary.RegisterRoutes(api, salaryHandler, svc.RBAC, authMiddleware)
		taxbracket.RegisterRoutes(api, taxBracketHandler, svc.RBAC, authMiddleware)
		payroll.RegisterRoutes(api, payrollHandler, svc.RBAC, authMiddleware, infra.Redis)
	}
}
