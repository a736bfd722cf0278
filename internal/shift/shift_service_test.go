package shift_test

import (
	"context"
	"testing"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/shared/validate"
	"github.com/Jordan1022/laundryco-scheduler/internal/shift"
	shifterrors "github.com/Jordan1022/laundryco-scheduler/internal/shift/errors"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeShiftRepository struct {
	withTxFn                func(tx *gorm.DB) shift.Repository
	createFn                func(ctx context.Context, sh *shift.Shift) error
	findByIDFn              func(ctx context.Context, id string) (*shift.Shift, error)
	findAllBetweenFn        func(ctx context.Context, from, to time.Time) ([]shift.Shift, error)
	updateFn                func(ctx context.Context, sh *shift.Shift) error
	updateStatusFn          func(ctx context.Context, id, status string) (int64, error)
	findAssignedFn          func(ctx context.Context, shiftID uuid.UUID) ([]shift.Assignment, error)
	findAssignedForUpdateFn func(ctx context.Context, shiftID uuid.UUID) ([]shift.Assignment, error)
	createAssignmentFn      func(ctx context.Context, a *shift.Assignment) error
	updateAssignmentUserFn  func(ctx context.Context, id, userID uuid.UUID) error
	deleteAssignmentsFn     func(ctx context.Context, ids []uuid.UUID) error
}

func (f *fakeShiftRepository) WithTx(tx *gorm.DB) shift.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeShiftRepository) Create(ctx context.Context, sh *shift.Shift) error {
	if f.createFn != nil {
		return f.createFn(ctx, sh)
	}
	return nil
}

func (f *fakeShiftRepository) FindByID(ctx context.Context, id string) (*shift.Shift, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShiftRepository) FindAllBetween(ctx context.Context, from, to time.Time) ([]shift.Shift, error) {
	if f.findAllBetweenFn != nil {
		return f.findAllBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeShiftRepository) Update(ctx context.Context, sh *shift.Shift) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, sh)
	}
	return nil
}

func (f *fakeShiftRepository) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return 1, nil
}

func (f *fakeShiftRepository) FindAssigned(ctx context.Context, shiftID uuid.UUID) ([]shift.Assignment, error) {
	if f.findAssignedFn != nil {
		return f.findAssignedFn(ctx, shiftID)
	}
	return nil, nil
}

func (f *fakeShiftRepository) FindAssignedForUpdate(ctx context.Context, shiftID uuid.UUID) ([]shift.Assignment, error) {
	if f.findAssignedForUpdateFn != nil {
		return f.findAssignedForUpdateFn(ctx, shiftID)
	}
	return nil, nil
}

func (f *fakeShiftRepository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShiftRepository) FindAssignmentByIDForUpdate(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShiftRepository) FindAssignedByShiftAndUser(ctx context.Context, shiftID, userID uuid.UUID) (*shift.Assignment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShiftRepository) CreateAssignment(ctx context.Context, a *shift.Assignment) error {
	if f.createAssignmentFn != nil {
		return f.createAssignmentFn(ctx, a)
	}
	return nil
}

func (f *fakeShiftRepository) UpdateAssignmentUser(ctx context.Context, id, userID uuid.UUID) error {
	if f.updateAssignmentUserFn != nil {
		return f.updateAssignmentUserFn(ctx, id, userID)
	}
	return nil
}

func (f *fakeShiftRepository) DeleteAssignments(ctx context.Context, ids []uuid.UUID) error {
	if f.deleteAssignmentsFn != nil {
		return f.deleteAssignmentsFn(ctx, ids)
	}
	return nil
}

func (f *fakeShiftRepository) ListAssignedForUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]shift.AssignedShift, error) {
	return nil, nil
}

func (f *fakeShiftRepository) ListAssignedBetween(ctx context.Context, from, to time.Time) ([]shift.AssignedShift, error) {
	return nil, nil
}

// fakeUserLookup covers the assignee resolution the shift service does
// against the staff repository.
type fakeUserLookup struct {
	staff.Repository
	findActiveByIDFn func(ctx context.Context, id string) (*staff.User, error)
}

func (f *fakeUserLookup) WithTx(tx *gorm.DB) staff.Repository { return f }

func (f *fakeUserLookup) FindActiveByID(ctx context.Context, id string) (*staff.User, error) {
	if f.findActiveByIDFn != nil {
		return f.findActiveByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type shiftServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service shift.Service
	repo    *fakeShiftRepository
	users   *fakeUserLookup
}

func setupShiftServiceTest(t *testing.T) *shiftServiceDeps {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	repo := &fakeShiftRepository{}
	users := &fakeUserLookup{}
	svc := shift.NewService(gormDB, repo, users, nil, nil, 20*60)

	return &shiftServiceDeps{
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		users:   users,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestShiftService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("creates a published shift with an assignee", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		worker := uuid.New()
		deps.users.findActiveByIDFn = func(ctx context.Context, id string) (*staff.User, error) {
			return &staff.User{ID: worker, IsActive: true}, nil
		}

		var createdAssignment *shift.Assignment
		deps.repo.createAssignmentFn = func(ctx context.Context, a *shift.Assignment) error {
			createdAssignment = a
			return nil
		}
		deps.repo.findAssignedFn = func(ctx context.Context, shiftID uuid.UUID) ([]shift.Assignment, error) {
			if createdAssignment == nil {
				return nil, nil
			}
			return []shift.Assignment{*createdAssignment}, nil
		}

		resp, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:          "Morning press",
			Date:           "2026-09-07",
			StartTime:      "09:00",
			EndTime:        "17:00",
			AssignedUserID: worker.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, shift.StatusPublished, resp.Status)
		if assert.NotNil(t, createdAssignment) {
			assert.Equal(t, worker, createdAssignment.UserID)
		}
		if assert.NotNil(t, resp.Assignee) {
			assert.Equal(t, worker.String(), resp.Assignee.UserID)
		}
	})

	t.Run("rejects a window ending past closing", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		_, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:     "Late fold",
			Date:      "2026-09-07",
			StartTime: "18:00",
			EndTime:   "20:01",
		})

		assert.ErrorIs(t, err, validate.ErrAfterHours)
	})

	t.Run("accepts a window ending exactly at closing", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:     "Evening fold",
			Date:      "2026-09-07",
			StartTime: "16:00",
			EndTime:   "20:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-09-07T20:00:00Z", resp.EndTime)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		_, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:     "Backwards",
			Date:      "2026-09-07",
			StartTime: "12:00",
			EndTime:   "09:00",
		})

		assert.ErrorIs(t, err, validate.ErrInvalidTime)
	})

	t.Run("rejects an inactive assignee", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.users.findActiveByIDFn = func(ctx context.Context, id string) (*staff.User, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:          "Morning press",
			Date:           "2026-09-07",
			StartTime:      "09:00",
			EndTime:        "17:00",
			AssignedUserID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, shifterrors.ErrInvalidAssignee)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		_, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:     "Morning press",
			Date:      "07/09/2026",
			StartTime: "09:00",
			EndTime:   "17:00",
		})

		assert.ErrorIs(t, err, shifterrors.ErrInvalidDateFormat)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		_, err := deps.service.Create(ctx, actorID, shift.CreateShiftRequest{
			Title:     "Morning press",
			Date:      "2026-09-07",
			StartTime: "09:00",
			EndTime:   "17:00",
			Status:    "archived",
		})

		assert.ErrorIs(t, err, shifterrors.ErrInvalidShiftStatus)
	})
}

func TestShiftService_Update(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("clears the assignee when none is sent", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		shiftID := uuid.New()
		existing := shift.Assignment{
			ID:      uuid.New(),
			ShiftID: shiftID,
			UserID:  uuid.New(),
			Status:  shift.AssignmentAssigned,
		}

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*shift.Shift, error) {
			return &shift.Shift{ID: shiftID, Title: "Old title", Status: shift.StatusPublished}, nil
		}
		deps.repo.findAssignedForUpdateFn = func(ctx context.Context, id uuid.UUID) ([]shift.Assignment, error) {
			return []shift.Assignment{existing}, nil
		}

		var deleted []uuid.UUID
		deps.repo.deleteAssignmentsFn = func(ctx context.Context, ids []uuid.UUID) error {
			deleted = append(deleted, ids...)
			return nil
		}

		resp, err := deps.service.Update(ctx, actorID, shiftID.String(), shift.UpdateShiftRequest{
			Title:     "New title",
			Date:      "2026-09-08",
			StartTime: "10:00",
			EndTime:   "14:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, "New title", resp.Title)
		assert.Equal(t, []uuid.UUID{existing.ID}, deleted)
		assert.Nil(t, resp.Assignee)
	})

	t.Run("unknown shift maps to not found", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*shift.Shift, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(ctx, actorID, uuid.New().String(), shift.UpdateShiftRequest{
			Title:     "New title",
			Date:      "2026-09-08",
			StartTime: "10:00",
			EndTime:   "14:00",
		})

		assert.ErrorIs(t, err, shifterrors.ErrShiftNotFound)
	})
}

func TestShiftService_SetStatus(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("cancel marks the shift cancelled", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		var gotStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) (int64, error) {
			gotStatus = status
			return 1, nil
		}

		err := deps.service.SetStatus(ctx, actorID, uuid.New().String(), "cancel")

		assert.NoError(t, err)
		assert.Equal(t, shift.StatusCancelled, gotStatus)
	})

	t.Run("restore republishes the shift", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		var gotStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) (int64, error) {
			gotStatus = status
			return 1, nil
		}

		err := deps.service.SetStatus(ctx, actorID, uuid.New().String(), "restore")

		assert.NoError(t, err)
		assert.Equal(t, shift.StatusPublished, gotStatus)
	})

	t.Run("zero rows maps to not found", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) (int64, error) {
			return 0, nil
		}

		err := deps.service.SetStatus(ctx, actorID, uuid.New().String(), "cancel")

		assert.ErrorIs(t, err, shifterrors.ErrShiftNotFound)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		deps := setupShiftServiceTest(t)

		err := deps.service.SetStatus(ctx, actorID, uuid.New().String(), "pause")

		assert.ErrorIs(t, err, shifterrors.ErrInvalidStatusMode)
	})
}
