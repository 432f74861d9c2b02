package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the person directory's row. This service only reads it.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName     string     `gorm:"not null"`
	UnitID       *uuid.UUID `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

// UnitManager records that ManagerID administers a unit or a department.
// Exactly one of UnitID and DepartmentID is set.
type UnitManager struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ManagerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UnitID       *uuid.UUID `gorm:"type:uuid"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (UnitManager) TableName() string {
	return "unit_managers"
}
