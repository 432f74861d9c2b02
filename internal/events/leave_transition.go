package events

import "time"

const (
	LeaveTransitionTopic     = "hr.leave.transition.v1"
	LeaveTransitionEventType = "leave_transition"
	LeaveAggregateType       = "leave_request"
)

// LeaveTransitionEvent is emitted once per committed status change of a
// leave request.
type LeaveTransitionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	Timestamp  time.Time `json:"timestamp"`
}
