package leavebalance

import (
	"context"
	"errors"

	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store owns every mutation of the balance counters. Callers bind it to
// their transaction with WithTx so the counter change commits or rolls back
// together with the request row.
//
//go:generate mockgen -source=leave_balance_store.go -destination=mock/leave_balance_store_mock.go -package=mock
type Store interface {
	WithTx(tx *gorm.DB) Store
	Get(ctx context.Context, employeeID string, year int) (LeaveBalance, error)
	Reserve(ctx context.Context, employeeID string, year, days int) (LeaveBalance, error)
	Release(ctx context.Context, employeeID string, year, days int) (LeaveBalance, error)
	Commit(ctx context.Context, employeeID string, year, days int) (LeaveBalance, error)
}

type store struct {
	repo   Repository
	logger *zap.Logger
}

func NewStore(repo Repository, logger ...*zap.Logger) Store {
	l := zap.L().Named("leavebalance.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.store")
	}
	return &store{repo: repo, logger: l}
}

func (s *store) WithTx(tx *gorm.DB) Store {
	return &store{repo: s.repo.WithTx(tx), logger: s.logger}
}

// Get returns the provisioned balance. Rows are only created by
// provisioning, so a missing row is ErrNoBalanceForYear.
func (s *store) Get(ctx context.Context, employeeID string, year int) (LeaveBalance, error) {
	b, err := s.repo.FindByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return LeaveBalance{}, mapRepositoryError(err)
	}
	return *b, nil
}

// Reserve moves days from available to reserved.
func (s *store) Reserve(ctx context.Context, employeeID string, year, days int) (LeaveBalance, error) {
	b, err := s.lock(ctx, employeeID, year, days)
	if err != nil {
		return LeaveBalance{}, err
	}
	if b.AvailableDays() < days {
		return LeaveBalance{}, leavebalanceerrors.ErrInsufficientBalance
	}
	return s.apply(ctx, b, days, 0)
}

// Release returns reserved days to available.
func (s *store) Release(ctx context.Context, employeeID string, year, days int) (LeaveBalance, error) {
	b, err := s.lock(ctx, employeeID, year, days)
	if err != nil {
		return LeaveBalance{}, err
	}
	if b.ReservedDays < days {
		s.violation(b, "release", days)
		return LeaveBalance{}, leavebalanceerrors.ErrInvariantViolation
	}
	return s.apply(ctx, b, -days, 0)
}

// Commit turns reserved days into used days.
func (s *store) Commit(ctx context.Context, employeeID string, year, days int) (LeaveBalance, error) {
	b, err := s.lock(ctx, employeeID, year, days)
	if err != nil {
		return LeaveBalance{}, err
	}
	if b.ReservedDays < days {
		s.violation(b, "commit", days)
		return LeaveBalance{}, leavebalanceerrors.ErrInvariantViolation
	}
	return s.apply(ctx, b, -days, days)
}

func (s *store) lock(ctx context.Context, employeeID string, year, days int) (*LeaveBalance, error) {
	if days <= 0 {
		return nil, leavebalanceerrors.ErrInvariantViolation
	}

	b, err := s.repo.FindByEmployeeYearForUpdate(ctx, employeeID, year)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !b.Consistent() {
		s.violation(b, "load", days)
		return nil, leavebalanceerrors.ErrInvariantViolation
	}
	return b, nil
}

func (s *store) apply(ctx context.Context, b *LeaveBalance, reservedDelta, usedDelta int) (LeaveBalance, error) {
	affected, err := s.repo.ApplyDelta(ctx, b.ID, b.Version, reservedDelta, usedDelta)
	if err != nil {
		return LeaveBalance{}, err
	}
	if affected == 0 {
		return LeaveBalance{}, leavebalanceerrors.ErrConcurrentModification
	}

	updated := *b
	updated.ReservedDays += reservedDelta
	updated.UsedDays += usedDelta
	updated.Version++
	return updated, nil
}

func (s *store) violation(b *LeaveBalance, op string, days int) {
	s.logger.Error("leave balance invariant violated",
		zap.String("op", op),
		zap.String("employee_id", b.EmployeeID.String()),
		zap.Int("year", b.Year),
		zap.Int("days", days),
		zap.Int("entitlement_days", b.EntitlementDays),
		zap.Int("used_days", b.UsedDays),
		zap.Int("reserved_days", b.ReservedDays),
	)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavebalanceerrors.ErrNoBalanceForYear
	}
	return err
}
