package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is the per employee, per calendar year ledger row.
type LeaveBalance struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_year"`
	Year            int       `gorm:"not null;uniqueIndex:uq_leave_balance_employee_year"`
	EntitlementDays int       `gorm:"not null;check:chk_leave_balances_entitlement,entitlement_days >= 0"`
	UsedDays        int       `gorm:"not null;default:0;check:chk_leave_balances_used,used_days >= 0"`
	ReservedDays    int       `gorm:"not null;default:0;check:chk_leave_balances_reserved,reserved_days >= 0"`
	Version         int       `gorm:"not null;default:1;check:chk_leave_balances_capacity,used_days + reserved_days <= entitlement_days"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) AvailableDays() int {
	return b.EntitlementDays - b.UsedDays - b.ReservedDays
}

// Consistent reports whether the row satisfies
// used + reserved <= entitlement with no negative counter.
func (b LeaveBalance) Consistent() bool {
	return b.EntitlementDays >= 0 &&
		b.UsedDays >= 0 &&
		b.ReservedDays >= 0 &&
		b.UsedDays+b.ReservedDays <= b.EntitlementDays
}
