package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	FindBySubmissionKey(ctx context.Context, employeeID, key string) (*LeaveRequest, error)
	FindAllByStatus(ctx context.Context, status Status) ([]LeaveRequest, error)
	FindPendingInScope(ctx context.Context, unitIDs, departmentIDs []string) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string, year *int) ([]LeaveRequest, error)
	// UpdateDecision persists a transition. It only matches while the row is
	// still in from, so zero rows affected means a concurrent writer won.
	UpdateDecision(ctx context.Context, l *LeaveRequest, from Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindBySubmissionKey(ctx context.Context, employeeID, key string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("submission_key = ?", key).
		First(&l).Error
	return &l, err
}

func (r *repository) FindAllByStatus(ctx context.Context, status Status) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingInScope(ctx context.Context, unitIDs, departmentIDs []string) ([]LeaveRequest, error) {
	if len(unitIDs) == 0 && len(departmentIDs) == 0 {
		return []LeaveRequest{}, nil
	}

	var (
		cond string
		args []any
	)
	switch {
	case len(unitIDs) > 0 && len(departmentIDs) > 0:
		cond, args = "employees.unit_id IN ? OR employees.department_id IN ?", []any{unitIDs, departmentIDs}
	case len(unitIDs) > 0:
		cond, args = "employees.unit_id IN ?", []any{unitIDs}
	default:
		cond, args = "employees.department_id IN ?", []any{departmentIDs}
	}

	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id AND employees.deleted_at IS NULL").
		Where("leave_requests.status = ?", StatusPending).
		Where("("+cond+")", args...).
		Order("leave_requests.created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string, year *int) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID)
	if year != nil {
		q = q.Where("year = ?", *year)
	}

	var leaves []LeaveRequest
	err := q.Order("created_at DESC").
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdateDecision(ctx context.Context, l *LeaveRequest, from Status) (int64, error) {
	l.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Where("status = ?", from).
		Updates(map[string]any{
			"status":              l.Status,
			"manager_decision_by": l.ManagerDecisionBy,
			"manager_decision_at": l.ManagerDecisionAt,
			"hr_decision_by":      l.HRDecisionBy,
			"hr_decision_at":      l.HRDecisionAt,
			"rejection_reason":    l.RejectionReason,
			"updated_at":          l.UpdatedAt,
		})
	return res.RowsAffected, res.Error
}
