package leave

import (
	"database/sql/driver"
	"fmt"

	leaveerrors "go-portal-rh/internal/leave/errors"
)

// Status is the closed set of leave request states.
type Status string

const (
	StatusPending         Status = "pending"
	StatusManagerApproved Status = "manager_approved"
	StatusHRApproved      Status = "hr_approved"
	StatusRejected        Status = "rejected"
)

// transitions lists every legal move. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusPending:         {StatusManagerApproved, StatusRejected},
	StatusManagerApproved: {StatusHRApproved, StatusRejected},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusManagerApproved, StatusHRApproved, StatusRejected:
		return st, nil
	default:
		return "", leaveerrors.ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Terminal() bool {
	return s == StatusHRApproved || s == StatusRejected
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Scan refuses values outside the enumeration so a corrupt row never
// reaches the state machine.
func (s *Status) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("leave status: unsupported type %T", value)
	}

	st, err := ParseStatus(raw)
	if err != nil {
		return fmt.Errorf("leave status %q: %w", raw, err)
	}
	*s = st
	return nil
}

func (s Status) Value() (driver.Value, error) {
	if _, err := ParseStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}
