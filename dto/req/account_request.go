package req

// UpdateAccountRequest leaves a field untouched when it is absent (nil).
type UpdateAccountRequest struct {
	Username *string `json:"username" form:"username" validate:"omitnil,min=1"`
	Email    *string `json:"email" form:"email" validate:"omitnil,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}
