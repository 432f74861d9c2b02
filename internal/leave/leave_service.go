package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-portal-rh/internal/bootstrap"
	"go-portal-rh/internal/directory"
	"go-portal-rh/internal/domain"
	"go-portal-rh/internal/events"
	leaveerrors "go-portal-rh/internal/leave/errors"
	"go-portal-rh/internal/leavebalance"
	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier receives one event per committed transition. Implementations
// must not block.
type Notifier interface {
	Notify(ctx context.Context, evt events.LeaveTransitionEvent)
}

type Options struct {
	// MaxTxRetries is how many times a transition is replayed after a
	// concurrent modification before giving up.
	MaxTxRetries int
	RetryBackoff time.Duration
}

func DefaultOptions() Options {
	return Options{MaxTxRetries: 3, RetryBackoff: 20 * time.Millisecond}
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor Actor, submissionKey string, req SubmitLeaveRequest) (LeaveResponse, error)
	ManagerApprove(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	ManagerReject(ctx context.Context, actor Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)
	HRApprove(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	HRReject(ctx context.Context, actor Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)

	GetByID(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	ListPendingForManager(ctx context.Context, actor Actor) ([]LeaveResponse, error)
	ListManagerApprovedForHR(ctx context.Context, actor Actor) ([]LeaveResponse, error)
	HistoryForEmployee(ctx context.Context, actor Actor, employeeID string, year *int) ([]LeaveResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	balances  leavebalance.Store
	directory directory.Service
	days      *DayCounter
	audit     bootstrap.AuditLogger
	notifier  Notifier
	opts      Options
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires the workflow engine. audit and notifier may be nil.
func NewService(
	db *gorm.DB,
	repo Repository,
	balances leavebalance.Store,
	dir directory.Service,
	days *DayCounter,
	audit bootstrap.AuditLogger,
	notifier Notifier,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if opts.MaxTxRetries < 0 {
		opts.MaxTxRetries = 0
	}
	return &service{
		db:        db,
		repo:      repo,
		balances:  balances,
		directory: dir,
		days:      days,
		audit:     audit,
		notifier:  notifier,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor Actor, submissionKey string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actor.EmployeeID),
		zap.String("kind", req.Kind),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	key := strings.TrimSpace(submissionKey)
	if key != "" {
		existing, err := s.repo.FindBySubmissionKey(ctx, actor.EmployeeID, key)
		if err == nil {
			s.logger.Info("submit leave replayed",
				zap.String("leave_id", existing.ID.String()),
				zap.String("submission_key", key),
			)
			return mapToResponse(*existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, err
		}
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	days, err := s.days.Count(ctx, kind, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}
	if days == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoWorkingDays
	}

	l := LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Year:          start.Year(),
		StartDate:     start,
		EndDate:       end,
		RequestedDays: days,
		Kind:          kind,
		Reason:        strings.TrimSpace(req.Reason),
		Status:        StatusPending,
		CreatedBy:     employeeID,
	}
	if key != "" {
		l.SubmissionKey = &key
	}

	err = s.withRetry(ctx, "submit", func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := s.balances.WithTx(tx).Reserve(ctx, actor.EmployeeID, l.Year, l.RequestedDays); err != nil {
				return err
			}
			return s.repo.WithTx(tx).Create(ctx, &l)
		})
	})
	if err != nil {
		if key != "" && isUniqueViolation(err) {
			existing, findErr := s.repo.FindBySubmissionKey(ctx, actor.EmployeeID, key)
			if findErr == nil {
				return mapToResponse(*existing), nil
			}
		}
		s.reportFailure(ctx, "submit", l.ID.String(), actor, err)
		return LeaveResponse{}, err
	}

	s.logger.Info("leave submitted",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.Int("year", l.Year),
		zap.Int("requested_days", l.RequestedDays),
	)
	s.notify(ctx, l, "", actor)

	return mapToResponse(l), nil
}

func (s *service) ManagerApprove(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	allowed, err := s.managerGate(ctx, actor, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	return s.transition(ctx, actor, id, decision{
		op:      "manager_approve",
		to:      StatusManagerApproved,
		noop:    LeaveRequest.managerApproved,
		allowed: allowed,
		stamp:   stampManager,
	})
}

func (s *service) ManagerReject(ctx context.Context, actor Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	reason := strings.TrimSpace(req.RejectionReason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	allowed, err := s.managerGate(ctx, actor, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	return s.transition(ctx, actor, id, decision{
		op:      "manager_reject",
		to:      StatusRejected,
		noop:    LeaveRequest.managerRejected,
		allowed: allowed,
		balance: leavebalance.Store.Release,
		stamp:   stampManager,
		reason:  reason,
	})
}

func (s *service) HRApprove(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	if !IsHROffice(actor.Role) {
		return LeaveResponse{}, leaveerrors.ErrNotAuthorized
	}

	return s.transition(ctx, actor, id, decision{
		op:      "hr_approve",
		to:      StatusHRApproved,
		noop:    func(l LeaveRequest) bool { return l.Status == StatusHRApproved },
		allowed: CanHRDecide,
		balance: leavebalance.Store.Commit,
		stamp:   stampHR,
	})
}

func (s *service) HRReject(ctx context.Context, actor Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	reason := strings.TrimSpace(req.RejectionReason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	if !IsHROffice(actor.Role) {
		return LeaveResponse{}, leaveerrors.ErrNotAuthorized
	}

	return s.transition(ctx, actor, id, decision{
		op:      "hr_reject",
		to:      StatusRejected,
		noop:    LeaveRequest.hrRejected,
		allowed: CanHRDecide,
		balance: leavebalance.Store.Release,
		stamp:   stampHR,
		reason:  reason,
	})
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	if err := s.authorizeRead(ctx, actor, l.EmployeeID.String()); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) ListPendingForManager(ctx context.Context, actor Actor) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actor.EmployeeID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	scope, err := s.directory.ManagerScope(ctx, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []LeaveResponse{}, nil
	}

	leaves, err := s.repo.FindPendingInScope(ctx, scope.UnitIDs, scope.DepartmentIDs)
	if err != nil {
		s.logger.Error("list pending leaves failed", zap.String("manager_id", actor.EmployeeID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListManagerApprovedForHR(ctx context.Context, actor Actor) ([]LeaveResponse, error) {
	if !IsHROffice(actor.Role) {
		return nil, leaveerrors.ErrNotAuthorized
	}

	leaves, err := s.repo.FindAllByStatus(ctx, StatusManagerApproved)
	if err != nil {
		s.logger.Error("list hr queue failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) HistoryForEmployee(ctx context.Context, actor Actor, employeeID string, year *int) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	if err := s.authorizeRead(ctx, actor, employeeID); err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindAllByEmployee(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("leave history failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

// decision describes one stage of the approval workflow.
type decision struct {
	op string
	to Status
	// noop is true when the same stage already reached its outcome.
	noop    func(LeaveRequest) bool
	allowed func(LeaveRequest) bool
	balance func(store leavebalance.Store, ctx context.Context, employeeID string, year, days int) (leavebalance.LeaveBalance, error)
	stamp   func(l *LeaveRequest, actorID uuid.UUID, at time.Time)
	reason  string
}

func stampManager(l *LeaveRequest, actorID uuid.UUID, at time.Time) {
	l.ManagerDecisionBy = &actorID
	l.ManagerDecisionAt = &at
}

func stampHR(l *LeaveRequest, actorID uuid.UUID, at time.Time) {
	l.HRDecisionBy = &actorID
	l.HRDecisionAt = &at
}

// managerGate resolves the directory facts outside the transaction and
// returns the in-transaction predicate for the manager stage.
func (s *service) managerGate(ctx context.Context, actor Actor, id string) (func(LeaveRequest) bool, error) {
	if _, err := uuid.Parse(actor.EmployeeID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	snapshot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	org, err := s.directory.EmployeeOrg(ctx, snapshot.EmployeeID.String())
	if err != nil {
		return nil, err
	}
	scope, err := s.directory.ManagerScope(ctx, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !InManagerScope(scope, org) {
		s.logger.Warn("manager outside scope",
			zap.String("manager_id", actor.EmployeeID),
			zap.String("leave_id", id),
			zap.String("employee_id", org.EmployeeID),
		)
		return nil, leaveerrors.ErrNotAuthorized
	}

	return func(l LeaveRequest) bool {
		return CanManagerDecide(scope, org, l)
	}, nil
}

func (s *service) transition(ctx context.Context, actor Actor, id string, d decision) (LeaveResponse, error) {
	actorID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var (
		result  LeaveRequest
		from    Status
		changed bool
	)

	err = s.withRetry(ctx, d.op, func() error {
		changed = false
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			l, err := repo.FindByIDForUpdate(ctx, id)
			if err != nil {
				return mapNotFound(err)
			}
			if d.noop(*l) {
				result = *l
				return nil
			}
			if !d.allowed(*l) {
				return leaveerrors.ErrInvalidStatusTransition
			}

			from = l.Status
			if !from.CanTransitionTo(d.to) {
				return leaveerrors.ErrInvalidStatusTransition
			}

			if d.balance != nil {
				if _, err := d.balance(s.balances.WithTx(tx), ctx, l.EmployeeID.String(), l.Year, l.RequestedDays); err != nil {
					return err
				}
			}

			d.stamp(l, actorID, s.now())
			l.Status = d.to
			if d.reason != "" {
				reason := d.reason
				l.RejectionReason = &reason
			}

			affected, err := repo.UpdateDecision(ctx, l, from)
			if err != nil {
				return err
			}
			if affected == 0 {
				return leaveerrors.ErrConcurrentModification
			}

			result = *l
			changed = true
			return nil
		})
	})
	if err != nil {
		s.reportFailure(ctx, d.op, id, actor, err)
		return LeaveResponse{}, err
	}

	if !changed {
		s.logger.Info("leave transition already applied",
			zap.String("op", d.op),
			zap.String("leave_id", id),
			zap.String("status", result.Status.String()),
		)
		return mapToResponse(result), nil
	}

	s.logger.Info("leave transition committed",
		zap.String("op", d.op),
		zap.String("leave_id", id),
		zap.String("from", from.String()),
		zap.String("to", result.Status.String()),
		zap.String("actor_id", actor.EmployeeID),
	)
	s.notify(ctx, result, from, actor)

	return mapToResponse(result), nil
}

// withRetry replays fn while it fails with a concurrent modification. Each
// attempt runs a fresh transaction so nothing partial survives.
func (s *service) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.opts.MaxTxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * s.opts.RetryBackoff
			s.logger.Debug("retrying leave transition",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err = fn()
		if !isConcurrentModification(err) {
			return err
		}
	}

	s.logger.Warn("leave transition retries exhausted",
		zap.String("op", op),
		zap.Int("max_retries", s.opts.MaxTxRetries),
	)
	return leaveerrors.ErrConcurrentModification
}

func (s *service) reportFailure(ctx context.Context, op, leaveID string, actor Actor, err error) {
	if !errors.Is(err, leavebalanceerrors.ErrInvariantViolation) {
		s.logger.Warn("leave transition failed",
			zap.String("op", op),
			zap.String("leave_id", leaveID),
			zap.Error(err),
		)
		return
	}

	s.logger.Error("leave transition aborted on invariant violation",
		zap.String("op", op),
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actor.EmployeeID),
	)
	if s.audit != nil {
		s.audit.Log(ctx, bootstrap.AuditLog{
			Action:  bootstrap.AuditInvariantViolation,
			Message: "leave balance invariant violated during " + op,
			Meta: map[string]any{
				"leave_id": leaveID,
				"actor_id": actor.EmployeeID,
				"role":     actor.Role,
			},
		})
	}
}

func (s *service) notify(ctx context.Context, l LeaveRequest, from Status, actor Actor) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, events.LeaveTransitionEvent{
		EventType:  events.LeaveTransitionEventType,
		RequestID:  l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		FromStatus: from.String(),
		ToStatus:   l.Status.String(),
		ActorID:    actor.EmployeeID,
		Timestamp:  s.now(),
	})
}

// authorizeRead lets the owner, the HR office and a manager whose scope
// covers the employee see leave data.
func (s *service) authorizeRead(ctx context.Context, actor Actor, employeeID string) error {
	if actor.EmployeeID == employeeID || IsHROffice(actor.Role) {
		return nil
	}
	if actor.Role != domain.RoleManager {
		return leaveerrors.ErrNotAuthorized
	}

	scope, err := s.directory.ManagerScope(ctx, actor.EmployeeID)
	if err != nil {
		return err
	}
	if scope.Empty() {
		return leaveerrors.ErrNotAuthorized
	}
	org, err := s.directory.EmployeeOrg(ctx, employeeID)
	if err != nil {
		return err
	}
	if !InManagerScope(scope, org) {
		return leaveerrors.ErrNotAuthorized
	}
	return nil
}

func parsePeriod(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(rawStart), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(rawEnd), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if start.Year() != end.Year() {
		return time.Time{}, time.Time{}, leaveerrors.ErrCrossYear
	}
	return start, end, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func isConcurrentModification(err error) bool {
	return errors.Is(err, leaveerrors.ErrConcurrentModification) ||
		errors.Is(err, leavebalanceerrors.ErrConcurrentModification)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key value")
}
