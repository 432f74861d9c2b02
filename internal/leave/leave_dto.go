package leave

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type SubmitLeaveRequest struct {
	Kind      string `json:"kind" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required,max=1000"`
}

type LeaveResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	Year              int     `json:"year"`
	Kind              string  `json:"kind"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	RequestedDays     int     `json:"requested_days"`
	Reason            string  `json:"reason,omitempty"`
	Status            string  `json:"status"`
	ManagerDecisionBy *string `json:"manager_decision_by,omitempty"`
	ManagerDecisionAt *string `json:"manager_decision_at,omitempty"`
	HRDecisionBy      *string `json:"hr_decision_by,omitempty"`
	HRDecisionAt      *string `json:"hr_decision_at,omitempty"`
	RejectionReason   *string `json:"rejection_reason,omitempty"`
	CreatedBy         string  `json:"created_by"`
	CreatedAt         string  `json:"created_at"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:                l.ID.String(),
		EmployeeID:        l.EmployeeID.String(),
		Year:              l.Year,
		Kind:              l.Kind,
		StartDate:         l.StartDate.Format(dateLayout),
		EndDate:           l.EndDate.Format(dateLayout),
		RequestedDays:     l.RequestedDays,
		Reason:            l.Reason,
		Status:            l.Status.String(),
		ManagerDecisionBy: uuidPtrToString(l.ManagerDecisionBy),
		ManagerDecisionAt: timePtrToString(l.ManagerDecisionAt),
		HRDecisionBy:      uuidPtrToString(l.HRDecisionBy),
		HRDecisionAt:      timePtrToString(l.HRDecisionAt),
		RejectionReason:   l.RejectionReason,
		CreatedBy:         l.CreatedBy.String(),
		CreatedAt:         l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func uuidPtrToString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
