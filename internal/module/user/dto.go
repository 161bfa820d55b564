package user

// CreateUserRequest represents the input for creating a new user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

// UpdateUserRequest represents the input for updating an existing user.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

// MassDeleteRequest represents the input for deleting several users at once.
type MassDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
