package leave

import (
	"go-portal-rh/internal/directory"
	"go-portal-rh/internal/domain"
)

// Actor is the authenticated caller of an engine operation.
type Actor struct {
	EmployeeID string
	Role       string
}

// InManagerScope reports whether the manager administers the employee's
// unit or department.
func InManagerScope(scope directory.ManagerScope, org directory.EmployeeOrg) bool {
	if org.UnitID != "" {
		for _, id := range scope.UnitIDs {
			if id == org.UnitID {
				return true
			}
		}
	}
	if org.DepartmentID != "" {
		for _, id := range scope.DepartmentIDs {
			if id == org.DepartmentID {
				return true
			}
		}
	}
	return false
}

// CanManagerDecide is true iff the request awaits the manager stage and the
// employee falls under the manager's scope.
func CanManagerDecide(scope directory.ManagerScope, org directory.EmployeeOrg, req LeaveRequest) bool {
	return req.Status == StatusPending && InManagerScope(scope, org)
}

// IsHROffice reports whether the role belongs to the HR office.
func IsHROffice(role string) bool {
	return role == domain.RoleHR || role == domain.RoleAdmin
}

// CanHRDecide is true iff the request awaits the HR stage.
func CanHRDecide(req LeaveRequest) bool {
	return req.Status == StatusManagerApproved
}
