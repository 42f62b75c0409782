package dto

import (
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// RegisterRequest entrada para registro: credenciales + perfil.
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT Bearer y el usuario autenticado.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // segundos
	User        UserResponse `json:"user"`
}

// ChangePasswordRequest entrada para POST /api/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SetUserStatusRequest entrada para PATCH /api/users/{id}/status.
type SetUserStatusRequest struct {
	Active *bool `json:"is_active"`
}

// ToUserResponse convierte la entidad; nunca expone el hash.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		CompanyName:   u.CompanyName,
		ContactPerson: u.ContactPerson,
		Phone:         u.Phone,
		Role:          string(u.Role),
		IsActive:      u.Active,
		CreatedAt:     u.CreatedAt,
	}
}
