package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/repository"
)

var (
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrEmployeeManagementDisabled = errors.New("employee management is disabled")
	ErrNameRequired               = errors.New("name is required")
	ErrEmailRequired              = errors.New("email is required")
	ErrEmailTaken                 = errors.New("email is already in use")
)

// EmployeeService serves the employee directory. Mutations are only
// available when the service runs in managed-employee mode.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	credentials  CredentialSource
	managed      bool
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository, credentials CredentialSource, managed bool) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		credentials:  credentials,
		managed:      managed,
	}
}

// Managed reports whether employees can be created, edited and deleted.
func (s *EmployeeService) Managed() bool {
	return s.managed
}

func (s *EmployeeService) ListEmployees() ([]models.Employee, error) {
	employees, err := s.employeeRepo.ListEmployees()
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *EmployeeService) GetEmployee(id string) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployee(id)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

// CreateEmployee adds an employee together with a login credential that
// uses the default password.
func (s *EmployeeService) CreateEmployee(input models.Employee) (*models.Employee, error) {
	if !s.managed {
		return nil, ErrEmployeeManagementDisabled
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if err := s.ensureEmailFree(input.Email, ""); err != nil {
		return nil, err
	}

	employee, _, err := s.employeeRepo.CreateEmployeeWithCredential(input, models.LoginCredential{
		Email:    input.Email,
		Password: constants.DefaultEmployeePassword,
		Role:     models.RoleEmployee,
		Name:     input.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) UpdateEmployee(id string, patch models.EmployeePatch) (*models.Employee, error) {
	if !s.managed {
		return nil, ErrEmployeeManagementDisabled
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrNameRequired
	}
	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			return nil, ErrEmailRequired
		}
		if err := s.ensureEmailFree(*patch.Email, id); err != nil {
			return nil, err
		}
	}

	employee, err := s.employeeRepo.UpdateEmployee(id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee, nil
}

// DeleteEmployee removes an employee and its paired credential. Tasks
// assigned to the employee stay and show as unassigned.
func (s *EmployeeService) DeleteEmployee(id string) error {
	if !s.managed {
		return ErrEmployeeManagementDisabled
	}
	removed, err := s.employeeRepo.DeleteEmployee(id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if !removed {
		return ErrEmployeeNotFound
	}
	return nil
}

// ensureEmailFree rejects an email already used by another employee or any
// credential. exceptID is the employee being edited.
func (s *EmployeeService) ensureEmailFree(email, exceptID string) error {
	employees, err := s.employeeRepo.ListEmployees()
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	for _, e := range employees {
		if e.ID != exceptID && strings.EqualFold(e.Email, email) {
			return ErrEmailTaken
		}
	}

	credentials, err := s.credentials.Credentials()
	if err != nil {
		return err
	}
	for _, c := range credentials {
		if !strings.EqualFold(c.Email, email) {
			continue
		}
		if exceptID != "" && c.EmployeeID != nil && *c.EmployeeID == exceptID {
			continue
		}
		return ErrEmailTaken
	}
	return nil
}
