package leavebalanceerrors

import (
	"net/http"

	"go-portal-rh/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be between 2000 and 2100",
		http.StatusBadRequest,
	)
	ErrInvalidEntitlement = apperror.New(
		apperror.CodeInvalidInput,
		"entitlement_days must be zero or positive",
		http.StatusBadRequest,
	)
	ErrNoBalanceForYear = apperror.New(
		apperror.CodeNoBalance,
		"no leave balance provisioned for this year",
		http.StatusUnprocessableEntity,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusConflict,
	)
	ErrInvariantViolation = apperror.New(
		apperror.CodeInvariantViolation,
		"leave balance invariant violated",
		http.StatusInternalServerError,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConflict,
		"leave balance was modified concurrently, please retry",
		http.StatusConflict,
	)
)
