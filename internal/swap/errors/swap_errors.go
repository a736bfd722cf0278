package swaperrors

import (
	"net/http"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/apperror"
)

var (
	ErrSwapNotFound = apperror.New(
		apperror.CodeNotFound,
		"swap request not found or already reviewed",
		http.StatusNotFound,
	)
	ErrInvalidSwapID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid swap request id",
		http.StatusBadRequest,
	)
	ErrInvalidSwapRequest = apperror.New(
		apperror.CodeInvalidInput,
		"assignment is not yours, not active, or the shift has already started",
		http.StatusBadRequest,
	)
	ErrInvalidSwapTarget = apperror.New(
		apperror.CodeInvalidInput,
		"requested user does not exist or is inactive",
		http.StatusBadRequest,
	)
	ErrSwapAlreadyPending = apperror.New(
		apperror.CodeConflict,
		"a swap request for this assignment is already pending",
		http.StatusConflict,
	)
	ErrSwapTargetAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"requested user is already assigned to this shift",
		http.StatusConflict,
	)
	ErrAssignmentGone = apperror.New(
		apperror.CodeInvalidState,
		"the assignment behind this swap request no longer exists",
		http.StatusConflict,
	)
	ErrSwapConflict = apperror.New(
		apperror.CodeConflict,
		"requested user was assigned to this shift after the swap was filed",
		http.StatusConflict,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approved or denied",
		http.StatusBadRequest,
	)
)
