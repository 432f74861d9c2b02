package leavebalance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByEmployeeYear(ctx context.Context, employeeID string, year int) (*LeaveBalance, error)
	FindByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (*LeaveBalance, error)
	FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	ApplyDelta(ctx context.Context, id uuid.UUID, version, reservedDelta, usedDelta int) (int64, error)
	CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error)
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

func (r *repository) FindByEmployeeYear(ctx context.Context, employeeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

// FindByEmployeeYearForUpdate holds a row lock until the surrounding
// transaction ends. Drivers without row locks (sqlite) drop the clause and
// rely on their single writer instead.
func (r *repository) FindByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("employee_id ASC").
		Find(&balances).Error
	return balances, err
}

// ApplyDelta moves counters server side. The row only changes when its
// version still matches and the result keeps every counter in range, so a
// zero row count means the caller's snapshot is stale.
func (r *repository) ApplyDelta(ctx context.Context, id uuid.UUID, version, reservedDelta, usedDelta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", id).
		Where("version = ?", version).
		Where("reserved_days + ? >= 0", reservedDelta).
		Where("used_days + ? >= 0", usedDelta).
		Where("used_days + reserved_days + ? <= entitlement_days", reservedDelta+usedDelta).
		Updates(map[string]any{
			"reserved_days": gorm.Expr("reserved_days + ?", reservedDelta),
			"used_days":     gorm.Expr("used_days + ?", usedDelta),
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// CreateIfAbsent inserts b unless a row for (employee_id, year) exists.
func (r *repository) CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(b)
	return res.RowsAffected > 0, res.Error
}
