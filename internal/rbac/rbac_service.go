package rbac

import (
	"sync"

	"go-erp/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService builds an in-memory enforcer loaded with the static role matrix.
func NewService(logger *zap.Logger) (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for role, perms := range rolePermissions {
		for _, p := range perms {
			if _, err := e.AddPolicy(role, p.Resource, p.Action); err != nil {
				return nil, err
			}
		}
	}
	for role, parents := range roleParents {
		for _, parent := range parents {
			if _, err := e.AddGroupingPolicy(role, parent); err != nil {
				return nil, err
			}
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{enforcer: e, logger: logger.Named("rbac")}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
