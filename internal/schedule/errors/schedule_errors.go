package scheduleerrors

import (
	"net/http"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/apperror"
)

var (
	ErrEmptyRoster = apperror.New(
		apperror.CodeNotFound,
		"no assignments in the requested range",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
)
