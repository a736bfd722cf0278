package staff

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SetStatusRequest struct {
	Mode string `json:"mode" binding:"required,oneof=deactivate reactivate"`
	// Role optionally restores a reactivated user into a different role.
	Role string `json:"role"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type StaffResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}
