package shift

type CreateShiftRequest struct {
	Title          string `json:"title" binding:"required"`
	Location       string `json:"location"`
	Notes          string `json:"notes"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Status         string `json:"status" binding:"omitempty,oneof=draft published"`
	AssignedUserID string `json:"assigned_user_id"`
}

type UpdateShiftRequest struct {
	Title          string `json:"title" binding:"required"`
	Location       string `json:"location"`
	Notes          string `json:"notes"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Status         string `json:"status" binding:"omitempty,oneof=draft published cancelled"`
	AssignedUserID string `json:"assigned_user_id"`
}

type SetShiftStatusRequest struct {
	Mode string `json:"mode" binding:"required,oneof=cancel restore"`
}

type AssignmentResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type ShiftResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Location  *string             `json:"location,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
	StartTime string              `json:"start_time"`
	EndTime   string              `json:"end_time"`
	Status    string              `json:"status"`
	CreatedBy *string             `json:"created_by,omitempty"`
	Assignee  *AssignmentResponse `json:"assignee,omitempty"`
}
