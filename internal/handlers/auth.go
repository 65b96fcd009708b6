package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/dto"
	apierrors "github.com/yukikurage/staffdesk/internal/errors"
	"github.com/yukikurage/staffdesk/internal/middleware"
	"github.com/yukikurage/staffdesk/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login opens the session and tells the client where to go next: the view
// it was sent away from, or its role's dashboard.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	session, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	redirect := safeReturnTo(middleware.TakeReturnTo(c))
	if redirect == "" {
		redirect = session.Role.DefaultView()
	}

	cookie := sessions.Default(c)
	cookie.Set(constants.SessionKeyUID, session.UID)
	if err := cookie.Save(); err != nil {
		log.Printf("Failed to save cookie session: %v", err)
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Session:  dto.ToSessionDTO(*session),
		Redirect: redirect,
	})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(); err != nil {
		respondAuthError(c, err)
		return
	}

	cookie := sessions.Default(c)
	cookie.Clear()
	if err := cookie.Save(); err != nil {
		log.Printf("Failed to clear cookie session: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged out successfully",
		"redirect": "/login",
	})
}

// GetCurrentSession returns the signed-in actor.
func (h *AuthHandler) GetCurrentSession(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionDTO(*session))
}

// safeReturnTo accepts only same-origin absolute paths.
func safeReturnTo(location string) string {
	if !strings.HasPrefix(location, "/") || strings.HasPrefix(location, "//") || location == "/login" {
		return ""
	}
	return location
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	default:
		log.Printf("Auth error: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
