// Package validate holds the pure field checks shared by the shift and staff
// services. Nothing in here touches the database or the clock; every rule is a
// function of its arguments so the services stay deterministic and testable.
package validate

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/apperror"
)

// DefaultClosingMinutes is minutes-from-midnight for the 20:00 store close.
// Services read the configured value; this is the fallback.
const DefaultClosingMinutes = 20 * 60

// Roles a caller may submit. Inactive is a lifecycle status on the user row,
// never an assignable role.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

var (
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"shift end time must be after start time",
		http.StatusBadRequest,
	)
	ErrAfterHours = apperror.New(
		apperror.CodeInvalidInput,
		"shift must end by closing time",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be employee, manager or admin",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"invalid email address",
		http.StatusBadRequest,
	)
	ErrWeakPassword = apperror.New(
		apperror.CodeInvalidInput,
		"password must be at least 8 characters",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date range, expected YYYY-MM-DD dates",
		http.StatusBadRequest,
	)
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ParseTimeToMinutes converts an HH:MM wall-clock string to minutes from
// midnight.
func ParseTimeToMinutes(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidTimeFormat
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidTimeFormat
	}
	return hours*60 + minutes, nil
}

// ShiftWindow checks a shift's wall-clock window against closing time.
// A shift ending exactly at closing is valid; one starting at or after
// closing, or ending past it, is not.
func ShiftWindow(startMinutes, endMinutes, closingMinutes int) error {
	if endMinutes <= startMinutes {
		return ErrInvalidTime
	}
	if startMinutes >= closingMinutes || endMinutes > closingMinutes {
		return ErrAfterHours
	}
	return nil
}

// Role rejects anything outside the three assignable roles.
func Role(role string) error {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin:
		return nil
	default:
		return ErrInvalidRole
	}
}

// Email enforces the minimal local@domain.tld shape.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// PasswordStrength enforces the minimum length.
func PasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// DateRange parses an optional from/to query pair. The end date is
// inclusive; the returned upper bound is the start of the following day.
// An empty pair covers defaultDays days starting today.
func DateRange(fromRaw, toRaw string, now time.Time, defaultDays int) (time.Time, time.Time, error) {
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, defaultDays)

	if fromRaw != "" {
		parsed, err := time.Parse("2006-01-02", fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		from = parsed
	}
	if toRaw != "" {
		parsed, err := time.Parse("2006-01-02", toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}
