package leave_test

import (
	"context"
	"testing"
	"time"

	"go-portal-rh/internal/directory"
	"go-portal-rh/internal/leave"
	"go-portal-rh/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRequest(t *testing.T, db *gorm.DB, employeeID uuid.UUID, status leave.Status, key *string) *leave.LeaveRequest {
	t.Helper()
	l := &leave.LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Year:          2026,
		StartDate:     day(2026, 3, 2),
		EndDate:       day(2026, 3, 3),
		RequestedDays: 2,
		Kind:          leave.KindAnnual,
		Status:        status,
		SubmissionKey: key,
		CreatedBy:     employeeID,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func TestRepository_UpdateDecisionIsGuarded(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)
	l := seedRequest(t, db, uuid.New(), leave.StatusPending, nil)

	at := time.Now().UTC()
	by := uuid.New()
	l.Status = leave.StatusManagerApproved
	l.ManagerDecisionBy = &by
	l.ManagerDecisionAt = &at

	affected, err := repo.UpdateDecision(ctx, l, leave.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateDecision(ctx, l, leave.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	got, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, leave.StatusManagerApproved, got.Status)
	assert.Equal(t, by, *got.ManagerDecisionBy)
	assert.Equal(t, l.StartDate.Format("2006-01-02"), got.StartDate.UTC().Format("2006-01-02"))
}

func TestRepository_SubmissionKeyIsUniquePerEmployee(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)
	employeeID := uuid.New()
	key := "k-1"

	first := seedRequest(t, db, employeeID, leave.StatusPending, &key)
	seedRequest(t, db, uuid.New(), leave.StatusPending, &key)
	seedRequest(t, db, employeeID, leave.StatusPending, nil)
	seedRequest(t, db, employeeID, leave.StatusPending, nil)

	dup := *first
	dup.ID = uuid.New()
	assert.Error(t, repo.Create(ctx, &dup))

	got, err := repo.FindBySubmissionKey(ctx, employeeID.String(), key)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestRepository_FindPendingInScope(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t, &directory.Employee{}, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)

	unit := uuid.New()
	dept := uuid.New()
	inUnit := directory.Employee{ID: uuid.New(), FullName: "A", UnitID: &unit}
	inDept := directory.Employee{ID: uuid.New(), FullName: "B", DepartmentID: &dept}
	elsewhere := directory.Employee{ID: uuid.New(), FullName: "C"}
	require.NoError(t, db.Create([]*directory.Employee{&inUnit, &inDept, &elsewhere}).Error)

	a := seedRequest(t, db, inUnit.ID, leave.StatusPending, nil)
	seedRequest(t, db, inUnit.ID, leave.StatusManagerApproved, nil)
	b := seedRequest(t, db, inDept.ID, leave.StatusPending, nil)
	seedRequest(t, db, elsewhere.ID, leave.StatusPending, nil)

	got, err := repo.FindPendingInScope(ctx, []string{unit.String()}, []string{dept.String()})
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)

	got, err = repo.FindPendingInScope(ctx, []string{unit.String()}, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.FindPendingInScope(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, db.Delete(&inDept).Error)
	got, err = repo.FindPendingInScope(ctx, nil, []string{dept.String()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_FindAllByEmployee(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)
	employeeID := uuid.New()

	seedRequest(t, db, employeeID, leave.StatusPending, nil)
	old := &leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: employeeID, Year: 2025,
		StartDate: day(2025, 5, 1), EndDate: day(2025, 5, 1), RequestedDays: 1,
		Kind: leave.KindAnnual, Status: leave.StatusHRApproved, CreatedBy: employeeID,
	}
	require.NoError(t, db.Create(old).Error)

	all, err := repo.FindAllByEmployee(ctx, employeeID.String(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	year := 2025
	only, err := repo.FindAllByEmployee(ctx, employeeID.String(), &year)
	require.NoError(t, err)
	if assert.Len(t, only, 1) {
		assert.Equal(t, old.ID, only[0].ID)
	}

	queue, err := repo.FindAllByStatus(ctx, leave.StatusHRApproved)
	require.NoError(t, err)
	assert.Len(t, queue, 1)
}
