package schedule

import (
	"bytes"
	"context"
	"fmt"
	"time"

	scheduleerrors "github.com/Jordan1022/laundryco-scheduler/internal/schedule/errors"
	"github.com/Jordan1022/laundryco-scheduler/internal/shift"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService renders roster views as downloadable files. Excel goes to
// managers doing payroll, the calendar feed goes to staff phones.
type ExportService interface {
	ExportRosterXLSX(ctx context.Context, from, to time.Time) (*bytes.Buffer, string, error)
	UserCalendarICS(ctx context.Context, userID uuid.UUID, from, to time.Time) (string, error)
}

type exportService struct {
	shifts shift.Repository
	logger *zap.Logger
}

func NewExportService(shifts shift.Repository, logger ...*zap.Logger) ExportService {
	l := zap.L().Named("schedule.export")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.export")
	}
	return &exportService{shifts: shifts, logger: l}
}

func (s *exportService) ExportRosterXLSX(ctx context.Context, from, to time.Time) (*bytes.Buffer, string, error) {
	rows, err := s.shifts.ListAssignedBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("export roster query failed", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", scheduleerrors.ErrEmptyRoster
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Date", "Shift", "Location", "Start", "End", "Staff", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range rows {
		location := ""
		if row.Location != nil {
			location = *row.Location
		}
		values := []interface{}{
			row.StartTime.Format("2006-01-02"),
			row.Title,
			location,
			row.StartTime.Format("15:04"),
			row.EndTime.Format("15:04"),
			row.UserName,
			row.ShiftStatus,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "G", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("export roster render failed", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("roster_%s_%s.xlsx", from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))
	return buf, filename, nil
}

func (s *exportService) UserCalendarICS(ctx context.Context, userID uuid.UUID, from, to time.Time) (string, error) {
	rows, err := s.shifts.ListAssignedForUserBetween(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("calendar feed query failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//laundryco-scheduler//roster//EN")

	for _, row := range rows {
		if row.ShiftStatus == shift.StatusCancelled {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@laundryco-scheduler", row.AssignmentID))
		event.SetSummary(row.Title)
		event.SetStartAt(row.StartTime.UTC())
		event.SetEndAt(row.EndTime.UTC())
		event.SetDtStampTime(time.Now().UTC())
		if row.Location != nil {
			event.SetLocation(*row.Location)
		}
	}

	return cal.Serialize(), nil
}
