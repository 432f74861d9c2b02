package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_year;uniqueIndex:uq_leave_requests_submission"`
	Year       int       `gorm:"not null;index:idx_leave_requests_employee_year"`

	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	RequestedDays int       `gorm:"not null;check:chk_leave_requests_days,requested_days > 0"`
	Kind          string    `gorm:"type:varchar(30);not null"`
	Reason        string    `gorm:"type:text"`

	Status            Status     `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	ManagerDecisionBy *uuid.UUID `gorm:"type:uuid"`
	ManagerDecisionAt *time.Time
	HRDecisionBy      *uuid.UUID `gorm:"type:uuid;column:hr_decision_by"`
	HRDecisionAt      *time.Time `gorm:"column:hr_decision_at"`
	RejectionReason   *string    `gorm:"type:text"`

	SubmissionKey *string   `gorm:"type:varchar(128);uniqueIndex:uq_leave_requests_submission"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// managerApproved reports whether the manager stage approved the request,
// whatever HR did afterwards.
func (l LeaveRequest) managerApproved() bool {
	if l.ManagerDecisionAt == nil {
		return false
	}
	switch l.Status {
	case StatusManagerApproved, StatusHRApproved:
		return true
	case StatusRejected:
		return l.HRDecisionAt != nil
	}
	return false
}

func (l LeaveRequest) managerRejected() bool {
	return l.Status == StatusRejected && l.HRDecisionAt == nil
}

func (l LeaveRequest) hrRejected() bool {
	return l.Status == StatusRejected && l.HRDecisionAt != nil
}
