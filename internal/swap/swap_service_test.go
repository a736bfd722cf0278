package swap_test

import (
	"context"
	"testing"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/shift"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"
	"github.com/Jordan1022/laundryco-scheduler/internal/swap"
	swaperrors "github.com/Jordan1022/laundryco-scheduler/internal/swap/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeSwapRepository struct {
	withTxFn                   func(tx *gorm.DB) swap.Repository
	createFn                   func(ctx context.Context, req *swap.ShiftSwapRequest) error
	findByIDFn                 func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error)
	findPendingByIDForUpdateFn func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error)
	findAllFn                  func(ctx context.Context, status string) ([]swap.ShiftSwapRequest, error)
	findByRequesterFn          func(ctx context.Context, userID uuid.UUID) ([]swap.ShiftSwapRequest, error)
	findPendingByAssignmentFn  func(ctx context.Context, assignmentID uuid.UUID) (*swap.ShiftSwapRequest, error)
	settlePendingFn            func(ctx context.Context, id string, status string) (int64, error)
}

func (f *fakeSwapRepository) WithTx(tx *gorm.DB) swap.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeSwapRepository) Create(ctx context.Context, req *swap.ShiftSwapRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return nil
}

func (f *fakeSwapRepository) FindByID(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSwapRepository) FindPendingByIDForUpdate(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
	if f.findPendingByIDForUpdateFn != nil {
		return f.findPendingByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSwapRepository) FindAll(ctx context.Context, status string) ([]swap.ShiftSwapRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeSwapRepository) FindByRequester(ctx context.Context, userID uuid.UUID) ([]swap.ShiftSwapRequest, error) {
	if f.findByRequesterFn != nil {
		return f.findByRequesterFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeSwapRepository) FindPendingByAssignment(ctx context.Context, assignmentID uuid.UUID) (*swap.ShiftSwapRequest, error) {
	if f.findPendingByAssignmentFn != nil {
		return f.findPendingByAssignmentFn(ctx, assignmentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSwapRepository) SettlePending(ctx context.Context, id string, status string) (int64, error) {
	if f.settlePendingFn != nil {
		return f.settlePendingFn(ctx, id, status)
	}
	return 1, nil
}

// fakeRosterRepo covers the slice of the shift repository the swap service
// touches; the embedded interface panics on anything else.
type fakeRosterRepo struct {
	shift.Repository
	findByIDFn                    func(ctx context.Context, id string) (*shift.Shift, error)
	findAssignmentByIDFn          func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error)
	findAssignmentByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error)
	findAssignedByShiftAndUserFn  func(ctx context.Context, shiftID, userID uuid.UUID) (*shift.Assignment, error)
	updateAssignmentUserFn        func(ctx context.Context, id, userID uuid.UUID) error
}

func (f *fakeRosterRepo) WithTx(tx *gorm.DB) shift.Repository { return f }

func (f *fakeRosterRepo) FindByID(ctx context.Context, id string) (*shift.Shift, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRosterRepo) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
	if f.findAssignmentByIDFn != nil {
		return f.findAssignmentByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRosterRepo) FindAssignmentByIDForUpdate(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
	if f.findAssignmentByIDForUpdateFn != nil {
		return f.findAssignmentByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRosterRepo) FindAssignedByShiftAndUser(ctx context.Context, shiftID, userID uuid.UUID) (*shift.Assignment, error) {
	if f.findAssignedByShiftAndUserFn != nil {
		return f.findAssignedByShiftAndUserFn(ctx, shiftID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRosterRepo) UpdateAssignmentUser(ctx context.Context, id, userID uuid.UUID) error {
	if f.updateAssignmentUserFn != nil {
		return f.updateAssignmentUserFn(ctx, id, userID)
	}
	return nil
}

type fakeUserLookup struct {
	staff.Repository
	findActiveByIDFn func(ctx context.Context, id string) (*staff.User, error)
}

func (f *fakeUserLookup) WithTx(tx *gorm.DB) staff.Repository { return f }

func (f *fakeUserLookup) FindActiveByID(ctx context.Context, id string) (*staff.User, error) {
	if f.findActiveByIDFn != nil {
		return f.findActiveByIDFn(ctx, id)
	}
	return &staff.User{IsActive: true}, nil
}

type swapServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service swap.Service
	repo    *fakeSwapRepository
	shifts  *fakeRosterRepo
	users   *fakeUserLookup
}

func setupSwapServiceTest(t *testing.T) *swapServiceDeps {
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

	repo := &fakeSwapRepository{}
	shifts := &fakeRosterRepo{}
	users := &fakeUserLookup{}
	svc := swap.NewService(gormDB, repo, shifts, users, nil, nil)

	return &swapServiceDeps{
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		shifts:  shifts,
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

type swapFixture struct {
	requester  uuid.UUID
	target     uuid.UUID
	shiftID    uuid.UUID
	assignment shift.Assignment
	upcoming   shift.Shift
}

func newSwapFixture(now time.Time) swapFixture {
	f := swapFixture{
		requester: uuid.New(),
		target:    uuid.New(),
		shiftID:   uuid.New(),
	}
	f.assignment = shift.Assignment{
		ID:      uuid.New(),
		ShiftID: f.shiftID,
		UserID:  f.requester,
		Status:  shift.AssignmentAssigned,
	}
	f.upcoming = shift.Shift{
		ID:        f.shiftID,
		Title:     "Morning press",
		StartTime: now.Add(48 * time.Hour),
		EndTime:   now.Add(56 * time.Hour),
		Status:    shift.StatusPublished,
	}
	return f
}

func (f swapFixture) wire(deps *swapServiceDeps) {
	deps.shifts.findAssignmentByIDFn = func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
		if id == f.assignment.ID {
			a := f.assignment
			return &a, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	deps.shifts.findByIDFn = func(ctx context.Context, id string) (*shift.Shift, error) {
		if id == f.shiftID.String() {
			sh := f.upcoming
			return &sh, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
}

func TestSwapService_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	t.Run("files a pending request", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.wire(deps)

		var created *swap.ShiftSwapRequest
		deps.repo.createFn = func(ctx context.Context, req *swap.ShiftSwapRequest) error {
			created = req
			return nil
		}

		resp, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.NoError(t, err)
		assert.Equal(t, swap.StatusPending, resp.Status)
		if assert.NotNil(t, created) {
			if assert.NotNil(t, created.OriginalAssignmentID) {
				assert.Equal(t, fx.assignment.ID, *created.OriginalAssignmentID)
			}
			assert.Equal(t, fx.target, created.RequestedUserID)
		}
	})

	t.Run("rejects someone else's assignment", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.wire(deps)

		_, err := deps.service.Submit(ctx, uuid.New().String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapRequest)
	})

	t.Run("rejects a shift that already started", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.upcoming.StartTime = now.Add(-time.Hour)
		fx.wire(deps)

		_, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapRequest)
	})

	t.Run("rejects a cancelled shift", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.upcoming.Status = shift.StatusCancelled
		fx.wire(deps)

		_, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapRequest)
	})

	t.Run("rejects an inactive target", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.wire(deps)
		deps.users.findActiveByIDFn = func(ctx context.Context, id string) (*staff.User, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapTarget)
	})

	t.Run("rejects swapping to yourself", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.wire(deps)

		_, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.requester.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrInvalidSwapTarget)
	})

	t.Run("rejects a second pending swap on the same assignment", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.wire(deps)
		deps.repo.findPendingByAssignmentFn = func(ctx context.Context, assignmentID uuid.UUID) (*swap.ShiftSwapRequest, error) {
			return &swap.ShiftSwapRequest{ID: uuid.New(), Status: swap.StatusPending}, nil
		}

		_, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrSwapAlreadyPending)
	})

	t.Run("rejects a target already on the shift", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		fx := newSwapFixture(now)
		fx.wire(deps)
		deps.shifts.findAssignedByShiftAndUserFn = func(ctx context.Context, shiftID, userID uuid.UUID) (*shift.Assignment, error) {
			return &shift.Assignment{ID: uuid.New(), ShiftID: shiftID, UserID: userID}, nil
		}

		_, err := deps.service.Submit(ctx, fx.requester.String(), swap.SubmitSwapRequest{
			AssignmentID:    fx.assignment.ID.String(),
			RequestedUserID: fx.target.String(),
		}, now)

		assert.ErrorIs(t, err, swaperrors.ErrSwapTargetAlreadyAssigned)
	})
}

func TestSwapService_Review(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	reviewerID := uuid.New().String()

	pendingFor := func(fx swapFixture) *swap.ShiftSwapRequest {
		assignmentID := fx.assignment.ID
		return &swap.ShiftSwapRequest{
			ID:                   uuid.New(),
			OriginalAssignmentID: &assignmentID,
			RequestedUserID:      fx.target,
			Status:               swap.StatusPending,
		}
	}

	t.Run("approve moves the assignment to the target", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		fx := newSwapFixture(now)
		fx.wire(deps)
		req := pendingFor(fx)

		deps.repo.findPendingByIDForUpdateFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return req, nil
		}
		deps.shifts.findAssignmentByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
			a := fx.assignment
			return &a, nil
		}

		var retargetedTo uuid.UUID
		deps.shifts.updateAssignmentUserFn = func(ctx context.Context, id, userID uuid.UUID) error {
			retargetedTo = userID
			return nil
		}

		var settled string
		deps.repo.settlePendingFn = func(ctx context.Context, id string, status string) (int64, error) {
			settled = status
			return 1, nil
		}

		err := deps.service.Review(ctx, reviewerID, req.ID.String(), swap.StatusApproved)

		assert.NoError(t, err)
		assert.Equal(t, fx.target, retargetedTo)
		assert.Equal(t, swap.StatusApproved, settled)
	})

	t.Run("approve is idempotent when the target already holds the row", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		fx := newSwapFixture(now)
		fx.assignment.UserID = fx.target
		fx.wire(deps)
		req := pendingFor(fx)

		deps.repo.findPendingByIDForUpdateFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return req, nil
		}
		deps.shifts.findAssignmentByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
			a := fx.assignment
			return &a, nil
		}
		deps.shifts.updateAssignmentUserFn = func(ctx context.Context, id, userID uuid.UUID) error {
			t.Fatal("assignment should not be retargeted")
			return nil
		}

		err := deps.service.Review(ctx, reviewerID, req.ID.String(), swap.StatusApproved)

		assert.NoError(t, err)
	})

	t.Run("approve conflicts when the target gained another row on the shift", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		fx := newSwapFixture(now)
		fx.wire(deps)
		req := pendingFor(fx)

		deps.repo.findPendingByIDForUpdateFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return req, nil
		}
		deps.shifts.findAssignmentByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
			a := fx.assignment
			return &a, nil
		}
		deps.shifts.findAssignedByShiftAndUserFn = func(ctx context.Context, shiftID, userID uuid.UUID) (*shift.Assignment, error) {
			return &shift.Assignment{ID: uuid.New(), ShiftID: shiftID, UserID: userID}, nil
		}

		err := deps.service.Review(ctx, reviewerID, req.ID.String(), swap.StatusApproved)

		assert.ErrorIs(t, err, swaperrors.ErrSwapConflict)
	})

	t.Run("approve fails when the assignment is gone", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		fx := newSwapFixture(now)
		req := pendingFor(fx)

		deps.repo.findPendingByIDForUpdateFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return req, nil
		}
		deps.shifts.findAssignmentByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Review(ctx, reviewerID, req.ID.String(), swap.StatusApproved)

		assert.ErrorIs(t, err, swaperrors.ErrAssignmentGone)
	})

	t.Run("approve fails when the assignment reference was nulled", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		fx := newSwapFixture(now)
		req := pendingFor(fx)
		// The database nulls the reference when a roster edit deletes the
		// assignment row.
		req.OriginalAssignmentID = nil

		deps.repo.findPendingByIDForUpdateFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return req, nil
		}
		deps.shifts.findAssignmentByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*shift.Assignment, error) {
			t.Fatal("assignment lookup should be skipped")
			return nil, nil
		}

		err := deps.service.Review(ctx, reviewerID, req.ID.String(), swap.StatusApproved)

		assert.ErrorIs(t, err, swaperrors.ErrAssignmentGone)
	})

	t.Run("second review reports not found", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findPendingByIDForUpdateFn = func(ctx context.Context, id string) (*swap.ShiftSwapRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Review(ctx, reviewerID, uuid.New().String(), swap.StatusApproved)

		assert.ErrorIs(t, err, swaperrors.ErrSwapNotFound)
	})

	t.Run("deny settles without touching assignments", func(t *testing.T) {
		deps := setupSwapServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		var settled string
		deps.repo.settlePendingFn = func(ctx context.Context, id string, status string) (int64, error) {
			settled = status
			return 1, nil
		}
		deps.shifts.updateAssignmentUserFn = func(ctx context.Context, id, userID uuid.UUID) error {
			t.Fatal("deny must not touch assignments")
			return nil
		}

		err := deps.service.Review(ctx, reviewerID, uuid.New().String(), swap.StatusDenied)

		assert.NoError(t, err)
		assert.Equal(t, swap.StatusDenied, settled)
	})

	t.Run("rejects an unknown decision", func(t *testing.T) {
		deps := setupSwapServiceTest(t)

		err := deps.service.Review(ctx, reviewerID, uuid.New().String(), "maybe")

		assert.ErrorIs(t, err, swaperrors.ErrInvalidDecision)
	})
}
