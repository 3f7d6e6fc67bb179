package dto

import "jobboard_backend/internal/models"

type RegisterRequest struct {
	Email       string  `json:"email" binding:"required" validate:"required,email"`
	Password    string  `json:"password" binding:"required" validate:"required,min=8"`
	FullName    string  `json:"full_name" validate:"max=200"`
	Role        string  `json:"role" binding:"required" validate:"required,is-user-role"`
	CompanyName *string `json:"company_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
