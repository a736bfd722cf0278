package timeoff_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jordan1022/laundryco-scheduler/internal/timeoff"
	timeofferrors "github.com/Jordan1022/laundryco-scheduler/internal/timeoff/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeTimeOffService struct {
	submitFn  func(ctx context.Context, userID string, req timeoff.SubmitTimeOffRequest) (timeoff.TimeOffResponse, error)
	getAllFn  func(ctx context.Context, status string) ([]timeoff.TimeOffResponse, error)
	getMineFn func(ctx context.Context, userID string) ([]timeoff.TimeOffResponse, error)
	reviewFn  func(ctx context.Context, reviewerID, id, decision string) error
}

func (f *fakeTimeOffService) Submit(ctx context.Context, userID string, req timeoff.SubmitTimeOffRequest) (timeoff.TimeOffResponse, error) {
	return f.submitFn(ctx, userID, req)
}

func (f *fakeTimeOffService) GetAll(ctx context.Context, status string) ([]timeoff.TimeOffResponse, error) {
	return f.getAllFn(ctx, status)
}

func (f *fakeTimeOffService) GetMine(ctx context.Context, userID string) ([]timeoff.TimeOffResponse, error) {
	return f.getMineFn(ctx, userID)
}

func (f *fakeTimeOffService) Review(ctx context.Context, reviewerID, id, decision string) error {
	return f.reviewFn(ctx, reviewerID, id, decision)
}

func TestTimeOffHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()

		svc := &fakeTimeOffService{
			submitFn: func(ctx context.Context, uid string, req timeoff.SubmitTimeOffRequest) (timeoff.TimeOffResponse, error) {
				assert.Equal(t, userID, uid)
				return timeoff.TimeOffResponse{
					ID:        uuid.New().String(),
					UserID:    uid,
					StartDate: req.StartDate,
					EndDate:   req.EndDate,
					Status:    timeoff.StatusPending,
				}, nil
			},
		}

		h := timeoff.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"start_date":"2026-09-10","end_date":"2026-09-12","reason":"family visit"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/time-off", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", userID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got timeoff.TimeOffResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, timeoff.StatusPending, got.Status)
		assert.Equal(t, userID, got.UserID)
	})

	t.Run("missing fields fail binding", func(t *testing.T) {
		h := timeoff.NewHandler(&fakeTimeOffService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/time-off", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "INVALID_INPUT", env.Error.Code)
		}
	})
}

func TestTimeOffHandler_Review(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("approved", func(t *testing.T) {
		reviewerID := uuid.New().String()
		requestID := uuid.New().String()

		svc := &fakeTimeOffService{
			reviewFn: func(ctx context.Context, rid, id, decision string) error {
				assert.Equal(t, reviewerID, rid)
				assert.Equal(t, requestID, id)
				assert.Equal(t, timeoff.StatusApproved, decision)
				return nil
			},
		}

		h := timeoff.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/time-off/"+requestID+"/review",
			strings.NewReader(`{"decision":"approved"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Set("user_id", reviewerID)

		h.Review(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("already reviewed maps to 404", func(t *testing.T) {
		svc := &fakeTimeOffService{
			reviewFn: func(ctx context.Context, rid, id, decision string) error {
				return timeofferrors.ErrRequestNotFound
			},
		}

		h := timeoff.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/time-off/x/review",
			strings.NewReader(`{"decision":"denied"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Review(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "NOT_FOUND", env.Error.Code)
		}
	})

	t.Run("an unexpected decision fails binding", func(t *testing.T) {
		h := timeoff.NewHandler(&fakeTimeOffService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/time-off/x/review",
			strings.NewReader(`{"decision":"postponed"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Review(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
