package quotaerrors

import (
	"net/http"

	"leavehub/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	// A missing ledger row means provisioning never ran for this
	// employee/type/year. Callers surface it, never assume zero.
	ErrQuotaNotFound = apperror.New(
		apperror.CodeNotFound,
		"no leave quota provisioned for this employee, leave type and year",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"insufficient remaining leave balance",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"quota amount must be positive",
		http.StatusBadRequest,
	)
)
