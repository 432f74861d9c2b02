package leavebalance_test

import (
	"context"
	"errors"
	"testing"

	"go-portal-rh/internal/leavebalance"
	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"
	leavebalanceMock "go-portal-rh/internal/leavebalance/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func newStoreTest(t *testing.T) (leavebalance.Store, *leavebalanceMock.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)
	return leavebalance.NewStore(repo), repo
}

func balance(entitlement, used, reserved int) *leavebalance.LeaveBalance {
	return &leavebalance.LeaveBalance{
		ID:              uuid.New(),
		EmployeeID:      uuid.New(),
		Year:            2025,
		EntitlementDays: entitlement,
		UsedDays:        used,
		ReservedDays:    reserved,
		Version:         4,
	}
}

func TestStore_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(30, 5, 0)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)
		repo.EXPECT().ApplyDelta(ctx, b.ID, 4, 10, 0).Return(int64(1), nil)

		got, err := store.Reserve(ctx, "emp-1", 2025, 10)

		assert.NoError(t, err)
		assert.Equal(t, 10, got.ReservedDays)
		assert.Equal(t, 5, got.UsedDays)
		assert.Equal(t, 15, got.AvailableDays())
		assert.Equal(t, 5, got.Version)
	})

	t.Run("exactly available", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(10, 4, 2)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)
		repo.EXPECT().ApplyDelta(ctx, b.ID, 4, 4, 0).Return(int64(1), nil)

		got, err := store.Reserve(ctx, "emp-1", 2025, 4)

		assert.NoError(t, err)
		assert.Equal(t, 0, got.AvailableDays())
	})

	t.Run("insufficient balance", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(5, 0, 0)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)

		_, err := store.Reserve(ctx, "emp-1", 2025, 6)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
	})

	t.Run("no balance for year", func(t *testing.T) {
		store, repo := newStoreTest(t)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2030).Return(nil, gorm.ErrRecordNotFound)

		_, err := store.Reserve(ctx, "emp-1", 2030, 1)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrNoBalanceForYear)
	})

	t.Run("stale version", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(30, 0, 0)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)
		repo.EXPECT().ApplyDelta(ctx, b.ID, 4, 3, 0).Return(int64(0), nil)

		_, err := store.Reserve(ctx, "emp-1", 2025, 3)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrConcurrentModification)
	})

	t.Run("non positive days", func(t *testing.T) {
		store, _ := newStoreTest(t)

		_, err := store.Reserve(ctx, "emp-1", 2025, 0)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvariantViolation)
	})

	t.Run("corrupt row", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(5, 4, 3)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)

		_, err := store.Reserve(ctx, "emp-1", 2025, 1)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvariantViolation)
	})

	t.Run("repository error", func(t *testing.T) {
		store, repo := newStoreTest(t)
		dbErr := errors.New("connection reset")

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(nil, dbErr)

		_, err := store.Reserve(ctx, "emp-1", 2025, 1)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestStore_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(30, 2, 8)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)
		repo.EXPECT().ApplyDelta(ctx, b.ID, 4, -8, 0).Return(int64(1), nil)

		got, err := store.Release(ctx, "emp-1", 2025, 8)

		assert.NoError(t, err)
		assert.Equal(t, 0, got.ReservedDays)
		assert.Equal(t, 2, got.UsedDays)
		assert.Equal(t, 28, got.AvailableDays())
	})

	t.Run("more than reserved", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(30, 0, 2)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)

		_, err := store.Release(ctx, "emp-1", 2025, 3)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvariantViolation)
	})
}

func TestStore_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(30, 0, 10)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)
		repo.EXPECT().ApplyDelta(ctx, b.ID, 4, -10, 10).Return(int64(1), nil)

		got, err := store.Commit(ctx, "emp-1", 2025, 10)

		assert.NoError(t, err)
		assert.Equal(t, 0, got.ReservedDays)
		assert.Equal(t, 10, got.UsedDays)
		assert.Equal(t, 20, got.AvailableDays())
	})

	t.Run("more than reserved", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(30, 0, 9)

		repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)

		_, err := store.Commit(ctx, "emp-1", 2025, 10)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvariantViolation)
	})
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store, repo := newStoreTest(t)
		b := balance(22, 1, 2)

		repo.EXPECT().FindByEmployeeYear(ctx, "emp-1", 2025).Return(b, nil)

		got, err := store.Get(ctx, "emp-1", 2025)

		assert.NoError(t, err)
		assert.Equal(t, 19, got.AvailableDays())
	})

	t.Run("missing", func(t *testing.T) {
		store, repo := newStoreTest(t)

		repo.EXPECT().FindByEmployeeYear(ctx, "emp-1", 2025).Return(nil, gorm.ErrRecordNotFound)

		_, err := store.Get(ctx, "emp-1", 2025)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrNoBalanceForYear)
	})
}

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()
	store, repo := newStoreTest(t)
	b := balance(10, 0, 0)

	tx := &gorm.DB{}
	repo.EXPECT().WithTx(tx).Return(repo)
	repo.EXPECT().FindByEmployeeYearForUpdate(ctx, "emp-1", 2025).Return(b, nil)
	repo.EXPECT().ApplyDelta(ctx, b.ID, 4, 1, 0).Return(int64(1), nil)

	_, err := store.WithTx(tx).Reserve(ctx, "emp-1", 2025, 1)

	assert.NoError(t, err)
}
