package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// CredentialSource supplies the credentials a login is checked against.
type CredentialSource interface {
	Credentials() ([]models.LoginCredential, error)
}

// StaticCredentials is a fixed credential list.
type StaticCredentials []models.LoginCredential

func (c StaticCredentials) Credentials() ([]models.LoginCredential, error) {
	return c, nil
}

// CombinedCredentials appends credentials created at runtime to a fixed list.
type CombinedCredentials struct {
	Static  StaticCredentials
	Dynamic repository.CredentialRepository
}

func (c CombinedCredentials) Credentials() ([]models.LoginCredential, error) {
	dynamic, err := c.Dynamic.ListDynamicCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	all := make([]models.LoginCredential, 0, len(c.Static)+len(dynamic))
	all = append(all, c.Static...)
	return append(all, dynamic...), nil
}

// AuthService is the session gate: it owns the single current session of
// the process and keeps it in step with the persisted copy.
type AuthService struct {
	mu          sync.RWMutex
	current     *models.Session
	sessions    repository.SessionRepository
	employees   repository.EmployeeRepository
	credentials CredentialSource
	listeners   []func()
}

// NewAuthService creates an AuthService and restores the persisted session.
func NewAuthService(sessions repository.SessionRepository, employees repository.EmployeeRepository, credentials CredentialSource) (*AuthService, error) {
	current, err := sessions.GetSession()
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &AuthService{
		current:     current,
		sessions:    sessions,
		employees:   employees,
		credentials: credentials,
	}, nil
}

// Current returns a copy of the current session, or nil when logged out.
func (s *AuthService) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// OnSessionChange registers fn to run after every login or logout that
// replaces the current session.
func (s *AuthService) OnSessionChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *AuthService) notifyLocked() {
	for _, fn := range s.listeners {
		fn()
	}
}

// Login checks the credentials and opens a session. On any mismatch the
// existing session is cleared and ErrInvalidCredentials is returned,
// without telling unknown emails apart from wrong passwords.
func (s *AuthService) Login(email, password string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credentials, err := s.credentials.Credentials()
	if err != nil {
		return nil, err
	}

	credential := findCredential(credentials, email)
	if credential == nil || !matchPassword(credential.Password, password) {
		if err := s.clearLocked(); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	session, err := s.sessionFor(*credential)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.current = session
	s.notifyLocked()

	return session.Clone(), nil
}

// Logout clears the session. Logging out twice is harmless.
func (s *AuthService) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *AuthService) clearLocked() error {
	if err := s.sessions.SetSession(nil); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.current = nil
	s.notifyLocked()
	return nil
}

// sessionFor builds the session profile for a matched credential. Employee
// sessions take their display name from the employee directory.
func (s *AuthService) sessionFor(credential models.LoginCredential) (*models.Session, error) {
	session := &models.Session{
		UID:   credential.ID,
		Email: credential.Email,
		Name:  credential.Name,
		Role:  credential.Role,
	}
	if credential.EmployeeID != nil {
		id := *credential.EmployeeID
		session.EmployeeID = &id
	}

	if credential.Role == models.RoleEmployee && session.EmployeeID != nil {
		employee, err := s.employees.GetEmployee(*session.EmployeeID)
		switch {
		case err == nil:
			if employee.Name != "" {
				session.Name = employee.Name
			}
		case errors.Is(err, repository.ErrEmployeeNotFound):
			// credential name stays
		default:
			return nil, fmt.Errorf("failed to load employee: %w", err)
		}
	}

	return session, nil
}

func findCredential(credentials []models.LoginCredential, email string) *models.LoginCredential {
	for i := range credentials {
		if strings.EqualFold(credentials[i].Email, email) {
			return &credentials[i]
		}
	}
	return nil
}

// matchPassword compares a stored password with an attempt. Stored values
// that look like bcrypt hashes are verified with bcrypt; anything else is
// the plaintext of the built-in demo accounts and must match exactly.
func matchPassword(stored, attempt string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempt)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(attempt)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// HashPassword returns a bcrypt hash suitable for a credential's password field.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}
