package rbac

import "go-portal-rh/internal/domain"

type RolePermissionRow struct {
	Role     string `gorm:"primaryKey;size:32"`
	Resource string `gorm:"primaryKey;size:64"`
	Action   string `gorm:"primaryKey;size:64"`
}

func (RolePermissionRow) TableName() string {
	return "rbac_role_permissions"
}

// RoleParentRow makes Role inherit every permission of Parent.
type RoleParentRow struct {
	Role   string `gorm:"primaryKey;size:32"`
	Parent string `gorm:"primaryKey;size:32"`
}

func (RoleParentRow) TableName() string {
	return "rbac_role_parents"
}

const (
	ResourceLeave        = "leave"
	ResourceLeaveBalance = "leave_balance"
	ResourceHoliday      = "holiday"

	ActionCreate        = "create"
	ActionReadOwn       = "read_own"
	ActionReadTeam      = "read_team"
	ActionReadAny       = "read_any"
	ActionManagerDecide = "manager_decide"
	ActionHRDecide      = "hr_decide"
	ActionProvision     = "provision"
	ActionRead          = "read"
	ActionManage        = "manage"
)

// DefaultPermissions is seeded when the permission table is empty.
func DefaultPermissions() []RolePermissionRow {
	return []RolePermissionRow{
		{Role: domain.RoleEmployee, Resource: ResourceLeave, Action: ActionCreate},
		{Role: domain.RoleEmployee, Resource: ResourceLeave, Action: ActionReadOwn},
		{Role: domain.RoleEmployee, Resource: ResourceLeaveBalance, Action: ActionReadOwn},
		{Role: domain.RoleEmployee, Resource: ResourceHoliday, Action: ActionRead},

		{Role: domain.RoleManager, Resource: ResourceLeave, Action: ActionManagerDecide},
		{Role: domain.RoleManager, Resource: ResourceLeave, Action: ActionReadTeam},

		{Role: domain.RoleHR, Resource: ResourceLeave, Action: ActionHRDecide},
		{Role: domain.RoleHR, Resource: ResourceLeave, Action: ActionReadTeam},
		{Role: domain.RoleHR, Resource: ResourceLeaveBalance, Action: ActionReadAny},
		{Role: domain.RoleHR, Resource: ResourceLeaveBalance, Action: ActionProvision},
		{Role: domain.RoleHR, Resource: ResourceHoliday, Action: ActionManage},
	}
}

func DefaultParents() []RoleParentRow {
	return []RoleParentRow{
		{Role: domain.RoleManager, Parent: domain.RoleEmployee},
		{Role: domain.RoleHR, Parent: domain.RoleEmployee},
		{Role: domain.RoleAdmin, Parent: domain.RoleManager},
		{Role: domain.RoleAdmin, Parent: domain.RoleHR},
	}
}
