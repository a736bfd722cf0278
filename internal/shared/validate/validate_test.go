package validate_test

import (
	"testing"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/validate"

	"github.com/stretchr/testify/assert"
)

func TestShiftWindow(t *testing.T) {
	closing := validate.DefaultClosingMinutes

	t.Run("full business day is valid", func(t *testing.T) {
		start, err := validate.ParseTimeToMinutes("09:00")
		assert.NoError(t, err)
		end, err := validate.ParseTimeToMinutes("20:00")
		assert.NoError(t, err)

		assert.NoError(t, validate.ShiftWindow(start, end, closing))
	})

	t.Run("one minute past closing fails", func(t *testing.T) {
		start, _ := validate.ParseTimeToMinutes("09:00")
		end, _ := validate.ParseTimeToMinutes("20:01")

		err := validate.ShiftWindow(start, end, closing)
		assert.ErrorIs(t, err, validate.ErrAfterHours)
	})

	t.Run("starting at closing fails", func(t *testing.T) {
		start, _ := validate.ParseTimeToMinutes("20:00")
		end, _ := validate.ParseTimeToMinutes("21:00")

		err := validate.ShiftWindow(start, end, closing)
		assert.ErrorIs(t, err, validate.ErrAfterHours)
	})

	t.Run("inverted window fails before the hours check", func(t *testing.T) {
		start, _ := validate.ParseTimeToMinutes("10:00")
		end, _ := validate.ParseTimeToMinutes("09:00")

		err := validate.ShiftWindow(start, end, closing)
		assert.ErrorIs(t, err, validate.ErrInvalidTime)
	})

	t.Run("zero-length window fails", func(t *testing.T) {
		start, _ := validate.ParseTimeToMinutes("09:00")

		err := validate.ShiftWindow(start, start, closing)
		assert.ErrorIs(t, err, validate.ErrInvalidTime)
	})
}

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := validate.ParseTimeToMinutes(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestRole(t *testing.T) {
	assert.NoError(t, validate.Role("employee"))
	assert.NoError(t, validate.Role("manager"))
	assert.NoError(t, validate.Role("admin"))

	assert.ErrorIs(t, validate.Role("inactive"), validate.ErrInvalidRole)
	assert.ErrorIs(t, validate.Role("superuser"), validate.ErrInvalidRole)
	assert.ErrorIs(t, validate.Role(""), validate.ErrInvalidRole)
}

func TestEmail(t *testing.T) {
	assert.NoError(t, validate.Email("worker@laundryco.com"))

	assert.ErrorIs(t, validate.Email("worker"), validate.ErrInvalidEmail)
	assert.ErrorIs(t, validate.Email("worker@laundryco"), validate.ErrInvalidEmail)
	assert.ErrorIs(t, validate.Email("@laundryco.com"), validate.ErrInvalidEmail)
}

func TestPasswordStrength(t *testing.T) {
	assert.NoError(t, validate.PasswordStrength("longenough"))
	assert.NoError(t, validate.PasswordStrength("eight8ch"))

	assert.ErrorIs(t, validate.PasswordStrength("short7c"), validate.ErrWeakPassword)
	assert.ErrorIs(t, validate.PasswordStrength(""), validate.ErrWeakPassword)
}

func TestDateRange(t *testing.T) {
	now := time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC)

	t.Run("empty pair covers the default window from today", func(t *testing.T) {
		from, to, err := validate.DateRange("", "", now, 7)

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		from, to, err := validate.DateRange("2026-09-07", "2026-09-13", now, 7)

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("malformed dates fail", func(t *testing.T) {
		_, _, err := validate.DateRange("07/09/2026", "", now, 7)
		assert.ErrorIs(t, err, validate.ErrInvalidDateRange)

		_, _, err = validate.DateRange("", "13-09-2026", now, 7)
		assert.ErrorIs(t, err, validate.ErrInvalidDateRange)
	})

	t.Run("inverted range fails", func(t *testing.T) {
		_, _, err := validate.DateRange("2026-09-13", "2026-09-07", now, 7)
		assert.ErrorIs(t, err, validate.ErrInvalidDateRange)
	})
}
