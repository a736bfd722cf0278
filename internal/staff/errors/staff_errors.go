package stafferrors

import (
	"net/http"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/apperror"
)

var (
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"staff member not found",
		http.StatusNotFound,
	)
	ErrEmailExists = apperror.New(
		apperror.CodeConflict,
		"a staff member with this email already exists",
		http.StatusConflict,
	)
	ErrLastAdminProtected = apperror.New(
		apperror.CodeConflict,
		"cannot remove the last active admin",
		http.StatusConflict,
	)
	ErrInvalidStatusMode = apperror.New(
		apperror.CodeInvalidInput,
		"mode must be deactivate or reactivate",
		http.StatusBadRequest,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
)
