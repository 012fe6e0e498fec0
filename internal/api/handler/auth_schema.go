package handler

import "github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// authPayload is the data of a successful login or registration.
type authPayload struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
