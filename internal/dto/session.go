package dto

import (
	"github.com/yukikurage/staffdesk/internal/models"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionDTO represents the signed-in actor in API responses
type SessionDTO struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	EmployeeID  *string `json:"employeeId"`
	DefaultView string  `json:"defaultView"`
}

// LoginResponse tells the client who signed in and where to go next.
type LoginResponse struct {
	Session  SessionDTO `json:"session"`
	Redirect string     `json:"redirect"`
}

// ToSessionDTO converts a session
func ToSessionDTO(session models.Session) SessionDTO {
	return SessionDTO{
		UID:         session.UID,
		Email:       session.Email,
		Name:        session.Name,
		Role:        session.Role.String(),
		EmployeeID:  session.EmployeeID,
		DefaultView: session.Role.DefaultView(),
	}
}
