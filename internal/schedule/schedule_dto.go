package schedule

type RosterEntry struct {
	AssignmentID string  `json:"assignment_id"`
	ShiftID      string  `json:"shift_id"`
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	Title        string  `json:"title"`
	Location     *string `json:"location,omitempty"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	ShiftStatus  string  `json:"shift_status"`
}
