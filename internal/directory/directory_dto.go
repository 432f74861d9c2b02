package directory

import "github.com/google/uuid"

// EmployeeOrg is where an employee sits in the organisation. Empty strings
// mean the employee has no unit, department or manager.
type EmployeeOrg struct {
	EmployeeID   string `json:"employee_id"`
	UnitID       string `json:"unit_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	ManagerID    string `json:"manager_id,omitempty"`
}

// ManagerScope lists the units and departments a manager administers.
type ManagerScope struct {
	ManagerID     string   `json:"manager_id"`
	UnitIDs       []string `json:"unit_ids"`
	DepartmentIDs []string `json:"department_ids"`
}

func (s ManagerScope) Empty() bool {
	return len(s.UnitIDs) == 0 && len(s.DepartmentIDs) == 0
}

func mapToOrg(e Employee) EmployeeOrg {
	return EmployeeOrg{
		EmployeeID:   e.ID.String(),
		UnitID:       uuidToString(e.UnitID),
		DepartmentID: uuidToString(e.DepartmentID),
		ManagerID:    uuidToString(e.ManagerID),
	}
}

func mapToScope(managerID string, rows []UnitManager) ManagerScope {
	scope := ManagerScope{
		ManagerID:     managerID,
		UnitIDs:       []string{},
		DepartmentIDs: []string{},
	}
	for _, row := range rows {
		if row.UnitID != nil {
			scope.UnitIDs = append(scope.UnitIDs, row.UnitID.String())
		}
		if row.DepartmentID != nil {
			scope.DepartmentIDs = append(scope.DepartmentIDs, row.DepartmentID.String())
		}
	}
	return scope
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
