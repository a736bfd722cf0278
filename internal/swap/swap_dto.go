package swap

type SubmitSwapRequest struct {
	AssignmentID    string `json:"assignment_id" binding:"required,uuid"`
	RequestedUserID string `json:"requested_user_id" binding:"required,uuid"`
}

type ReviewSwapRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved denied"`
}

type SwapResponse struct {
	ID string `json:"id"`
	// OriginalAssignmentID is absent when the assignment has since been
	// removed from the roster.
	OriginalAssignmentID *string `json:"original_assignment_id,omitempty"`
	RequestedUserID      string  `json:"requested_user_id"`
	Status               string  `json:"status"`
	CreatedAt            string  `json:"created_at"`
}
