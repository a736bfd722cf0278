package shifterrors

import (
	"net/http"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/apperror"
)

var (
	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift not found",
		http.StatusNotFound,
	)
	ErrInvalidShiftID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidShiftStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift status",
		http.StatusBadRequest,
	)
	ErrInvalidStatusMode = apperror.New(
		apperror.CodeInvalidInput,
		"mode must be cancel or restore",
		http.StatusBadRequest,
	)
	ErrInvalidAssignee = apperror.New(
		apperror.CodeInvalidInput,
		"assigned user does not exist or is inactive",
		http.StatusBadRequest,
	)
)
