package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// body for registering a standalone account
type RegisterRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	Username *string    `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     string     `json:"role" binding:"omitempty,oneof=parent child"`
	DOB      *time.Time `json:"dob"`
	School   *string    `json:"school"`
	Grade    *string    `json:"grade"`
	Avatar   *string    `json:"avatar"`
}

// body for logging in: parents use email, kids use username
type LoginRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password string  `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Name     *string    `json:"name" binding:"omitempty,max=100"`
	Username *string    `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	Password *string    `json:"password" binding:"omitempty,min=6"`
	DOB      *time.Time `json:"dob"`
	School   *string    `json:"school"`
	Grade    *string    `json:"grade"`
	Avatar   *string    `json:"avatar"`
}

// returned for profile endpoints
type UserResponse struct {
	model.User
	TotalPoints int `json:"total_points"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}
