package schedule

import (
	"net/http"
	"time"

	scheduleerrors "github.com/Jordan1022/laundryco-scheduler/internal/schedule/errors"
	"github.com/Jordan1022/laundryco-scheduler/internal/shared/apperror"
	"github.com/Jordan1022/laundryco-scheduler/internal/shared/response"
	"github.com/Jordan1022/laundryco-scheduler/internal/shared/validate"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	export  ExportService
	logger  *zap.Logger
}

func NewHandler(service Service, export ExportService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("schedule.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.handler")
	}
	return &Handler{service: service, export: export, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("schedule request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Roster(c *gin.Context) {
	from, to, err := validate.DateRange(c.Query("from"), c.Query("to"), time.Now(), 28)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Roster(c.Request.Context(), from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MyRoster(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, scheduleerrors.ErrInvalidUserID)
		return
	}

	from, to, err := validate.DateRange(c.Query("from"), c.Query("to"), time.Now(), 28)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.UserRoster(c.Request.Context(), userID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportRoster(c *gin.Context) {
	from, to, err := validate.DateRange(c.Query("from"), c.Query("to"), time.Now(), 28)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	buf, filename, err := h.export.ExportRosterXLSX(c.Request.Context(), from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) MyCalendar(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, scheduleerrors.ErrInvalidUserID)
		return
	}

	from, to, err := validate.DateRange(c.Query("from"), c.Query("to"), time.Now(), 28)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	feed, err := h.export.UserCalendarICS(c.Request.Context(), userID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roster.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
