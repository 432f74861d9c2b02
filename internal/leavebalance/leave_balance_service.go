package leavebalance

import (
	"context"

	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minYear = 2000
	maxYear = 2100
)

//go:generate mockgen -source=leave_balance_service.go -destination=mock/leave_balance_service_mock.go -package=mock
type Service interface {
	GetForEmployee(ctx context.Context, employeeID string, year int) (BalanceResponse, error)
	ListByYear(ctx context.Context, year int) ([]BalanceResponse, error)
	// Provision creates the year's row unless it already exists. The bool
	// reports whether a row was created; an existing row is returned as is.
	Provision(ctx context.Context, req ProvisionBalanceRequest) (BalanceResponse, bool, error)
}

type service struct {
	repo   Repository
	store  Store
	logger *zap.Logger
}

func NewService(repo Repository, store Store, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{repo: repo, store: store, logger: l}
}

func (s *service) GetForEmployee(ctx context.Context, employeeID string, year int) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if !validYear(year) {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidYear
	}

	b, err := s.store.Get(ctx, employeeID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(b), nil
}

func (s *service) ListByYear(ctx context.Context, year int) ([]BalanceResponse, error) {
	if !validYear(year) {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	balances, err := s.repo.FindAllByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

func (s *service) Provision(ctx context.Context, req ProvisionBalanceRequest) (BalanceResponse, bool, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, false, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if !validYear(req.Year) {
		return BalanceResponse{}, false, leavebalanceerrors.ErrInvalidYear
	}
	if req.EntitlementDays == nil || *req.EntitlementDays < 0 {
		return BalanceResponse{}, false, leavebalanceerrors.ErrInvalidEntitlement
	}

	balance := &LeaveBalance{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		Year:            req.Year,
		EntitlementDays: *req.EntitlementDays,
		Version:         1,
	}

	created, err := s.repo.CreateIfAbsent(ctx, balance)
	if err != nil {
		return BalanceResponse{}, false, err
	}

	current, err := s.repo.FindByEmployeeYear(ctx, req.EmployeeID, req.Year)
	if err != nil {
		return BalanceResponse{}, false, mapRepositoryError(err)
	}

	if created {
		s.logger.Info("leave balance provisioned",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("year", req.Year),
			zap.Int("entitlement_days", current.EntitlementDays),
		)
	}

	return mapToResponse(*current), created, nil
}

func validYear(year int) bool {
	return year >= minYear && year <= maxYear
}
