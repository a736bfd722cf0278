package events

import "time"

const RequestReviewedTopic = "scheduler.request.reviewed.v1"

const (
	TimeOffReviewed = "timeoff.reviewed"
	SwapReviewed    = "swap.reviewed"
)

type RequestReviewedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	Decision   string    `json:"decision"`
	ReviewerID string    `json:"reviewer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
