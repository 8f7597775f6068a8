package dto

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *session.Identity `json:"user"`
}
