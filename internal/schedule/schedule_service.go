package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/shift"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	rosterAllKeyPrefix  = "roster:all:"
	rosterUserKeyPrefix = "roster:user:"
	rosterCacheTTL      = 5 * time.Minute
)

func rosterAllKey(from, to time.Time) string {
	return fmt.Sprintf("%s%s:%s", rosterAllKeyPrefix, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func rosterUserKey(userID string, from, to time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", rosterUserKeyPrefix, userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

type Service interface {
	Roster(ctx context.Context, from, to time.Time) ([]RosterEntry, error)
	UserRoster(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]RosterEntry, error)
	// InvalidateRoster drops cached roster views after an assignment change.
	InvalidateRoster(ctx context.Context)
}

type service struct {
	shifts shift.Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(shifts shift.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{shifts: shifts, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Roster(ctx context.Context, from, to time.Time) ([]RosterEntry, error) {
	cacheKey := rosterAllKey(from, to)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []RosterEntry
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.shifts.ListAssignedBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}

		resp := mapToEntries(rows)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, rosterCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]RosterEntry), nil
}

func (s *service) UserRoster(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]RosterEntry, error) {
	cacheKey := rosterUserKey(userID.String(), from, to)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []RosterEntry
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.shifts.ListAssignedForUserBetween(ctx, userID, from, to)
		if err != nil {
			return nil, err
		}

		resp := mapToEntries(rows)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, rosterCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]RosterEntry), nil
}

func (s *service) InvalidateRoster(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	for _, prefix := range []string{rosterAllKeyPrefix, rosterUserKeyPrefix} {
		iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				s.logger.Error("roster cache invalidation failed",
					zap.String("key", iter.Val()),
					zap.Error(err),
				)
			}
		}
		if err := iter.Err(); err != nil {
			s.logger.Error("roster cache scan failed", zap.Error(err))
		}
	}
}

func mapToEntries(rows []shift.AssignedShift) []RosterEntry {
	out := make([]RosterEntry, len(rows))
	for i, row := range rows {
		out[i] = RosterEntry{
			AssignmentID: row.AssignmentID.String(),
			ShiftID:      row.ShiftID.String(),
			UserID:       row.UserID.String(),
			UserName:     row.UserName,
			Title:        row.Title,
			Location:     row.Location,
			StartTime:    row.StartTime.Format(time.RFC3339),
			EndTime:      row.EndTime.Format(time.RFC3339),
			ShiftStatus:  row.ShiftStatus,
		}
	}
	return out
}
