package repository

import (
	"errors"

	"github.com/yukikurage/staffdesk/internal/models"
)

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmployeeNotFound is returned when no employee has the requested id.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrUnstorableTask is returned for a task whose status or priority could
	// not be read back once written.
	ErrUnstorableTask = errors.New("task cannot be stored")
)

// EmployeeRepository defines access to the employee directory
type EmployeeRepository interface {
	// ListEmployees returns every employee, seeding the directory if it was never stored
	ListEmployees() ([]models.Employee, error)

	// GetEmployee finds an employee by ID
	GetEmployee(id string) (*models.Employee, error)

	// CreateEmployeeWithCredential stores a new employee and its paired login credential
	CreateEmployeeWithCredential(employee models.Employee, credential models.LoginCredential) (*models.Employee, *models.LoginCredential, error)

	// UpdateEmployee merges a patch over an existing employee and carries email
	// and name changes over to its paired credential
	UpdateEmployee(id string, patch models.EmployeePatch) (*models.Employee, error)

	// DeleteEmployee removes an employee and its paired credential
	DeleteEmployee(id string) (bool, error)
}

// TaskRepository defines access to the task collection
type TaskRepository interface {
	// ListTasks returns every task, seeding the collection if it was never stored
	ListTasks() ([]models.Task, error)

	// GetTask finds a task by ID
	GetTask(id string) (*models.Task, error)

	// CreateTask stores a new task under a generated ID
	CreateTask(fields models.Task) (*models.Task, error)

	// UpdateTask merges a patch over an existing task
	UpdateTask(id string, patch models.TaskPatch) (*models.Task, error)

	// DeleteTask removes a task and reports whether it existed
	DeleteTask(id string) (bool, error)
}

// SessionRepository defines access to the current-session slot
type SessionRepository interface {
	// GetSession returns the persisted session, or nil when logged out
	GetSession() (*models.Session, error)

	// SetSession persists the session, or clears the slot when given nil
	SetSession(session *models.Session) error
}

// CredentialRepository defines access to credentials created at runtime
type CredentialRepository interface {
	// ListDynamicCredentials returns credentials created alongside managed employees
	ListDynamicCredentials() ([]models.LoginCredential, error)
}
