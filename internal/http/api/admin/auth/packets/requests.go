package packets

import "github.com/Nixie-Tech-LLC/familyhub/internal/model"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	Admin       *model.Admin `json:"admin"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateAdminRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}
