package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/kvstore"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/seed"
	"github.com/yukikurage/staffdesk/internal/utils"
)

// RecordStore keeps employees, tasks, the current session and dynamic
// credentials as JSON values in a key-value store. Every mutation rewrites
// the whole collection it touches.
type RecordStore struct {
	mu    sync.Mutex
	kv    kvstore.Store
	seed  *seed.Data
	newID func(prefix string) (string, error)
}

// NewRecordStore creates a RecordStore seeded from data on first access.
// A nil data uses the built-in seed.
func NewRecordStore(kv kvstore.Store, data *seed.Data) *RecordStore {
	if data == nil {
		data = seed.Builtin()
	}
	return &RecordStore{
		kv:    kv,
		seed:  data,
		newID: utils.NewRecordID,
	}
}

var (
	_ EmployeeRepository   = (*RecordStore)(nil)
	_ TaskRepository       = (*RecordStore)(nil)
	_ SessionRepository    = (*RecordStore)(nil)
	_ CredentialRepository = (*RecordStore)(nil)
)

// Bootstrap seeds every collection that has never been stored. It is meant
// to run once at startup so later reads find their data in place.
func (s *RecordStore) Bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.employeesLocked(); err != nil {
		return err
	}
	if _, err := s.tasksLocked(); err != nil {
		return err
	}
	if _, err := s.dynamicCredentialsLocked(); err != nil {
		return err
	}
	return nil
}

// Reset removes every stored entry. The next access re-seeds.
func (s *RecordStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{
		constants.StorageKeyEmployees,
		constants.StorageKeyTasks,
		constants.StorageKeyCurrentUser,
		constants.StorageKeyDynamicUsers,
	} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// ListEmployees implements EmployeeRepository.
func (s *RecordStore) ListEmployees() ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.employeesLocked()
}

// GetEmployee implements EmployeeRepository.
func (s *RecordStore) GetEmployee(id string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := s.employeesLocked()
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

// CreateEmployeeWithCredential implements EmployeeRepository. IDs on the
// arguments are ignored; both records get freshly generated ones.
func (s *RecordStore) CreateEmployeeWithCredential(employee models.Employee, credential models.LoginCredential) (*models.Employee, *models.LoginCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := s.employeesLocked()
	if err != nil {
		return nil, nil, err
	}
	credentials, err := s.dynamicCredentialsLocked()
	if err != nil {
		return nil, nil, err
	}

	employee.ID, err = s.newID(constants.EmployeeIDPrefix)
	if err != nil {
		return nil, nil, err
	}
	credential.ID, err = s.newID(constants.CredentialIDPrefix)
	if err != nil {
		return nil, nil, err
	}
	employeeID := employee.ID
	credential.EmployeeID = &employeeID

	if err := s.writeLocked(constants.StorageKeyEmployees, append(employees, employee)); err != nil {
		return nil, nil, err
	}
	if err := s.writeLocked(constants.StorageKeyDynamicUsers, append(credentials, credential)); err != nil {
		return nil, nil, err
	}
	return &employee, &credential, nil
}

// UpdateEmployee implements EmployeeRepository.
func (s *RecordStore) UpdateEmployee(id string, patch models.EmployeePatch) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := s.employeesLocked()
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].ID != id {
			continue
		}
		updated := patch.Apply(employees[i])
		updated.ID = id
		employees[i] = updated
		if err := s.writeLocked(constants.StorageKeyEmployees, employees); err != nil {
			return nil, err
		}
		if patch.Email != nil || patch.Name != nil {
			if err := s.syncCredentialLocked(updated); err != nil {
				return &updated, err
			}
		}
		return &updated, nil
	}
	return nil, ErrEmployeeNotFound
}

// syncCredentialLocked copies the employee's email and name onto its paired
// dynamic credential so login follows the directory.
func (s *RecordStore) syncCredentialLocked(employee models.Employee) error {
	credentials, err := s.dynamicCredentialsLocked()
	if err != nil {
		return err
	}
	changed := false
	for i := range credentials {
		c := &credentials[i]
		if c.EmployeeID == nil || *c.EmployeeID != employee.ID {
			continue
		}
		if c.Email != employee.Email || c.Name != employee.Name {
			c.Email = employee.Email
			c.Name = employee.Name
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeLocked(constants.StorageKeyDynamicUsers, credentials)
}

// DeleteEmployee implements EmployeeRepository. Tasks assigned to the
// employee are left as they are.
func (s *RecordStore) DeleteEmployee(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := s.employeesLocked()
	if err != nil {
		return false, err
	}
	remaining := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(employees) {
		return false, nil
	}
	if err := s.writeLocked(constants.StorageKeyEmployees, remaining); err != nil {
		return false, err
	}

	credentials, err := s.dynamicCredentialsLocked()
	if err != nil {
		return true, err
	}
	kept := make([]models.LoginCredential, 0, len(credentials))
	for _, c := range credentials {
		if c.EmployeeID == nil || *c.EmployeeID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) != len(credentials) {
		if err := s.writeLocked(constants.StorageKeyDynamicUsers, kept); err != nil {
			return true, err
		}
	}
	return true, nil
}

// ListTasks implements TaskRepository.
func (s *RecordStore) ListTasks() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksLocked()
}

// GetTask implements TaskRepository.
func (s *RecordStore) GetTask(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasksLocked()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, ErrTaskNotFound
}

// CreateTask implements TaskRepository. Any ID on fields is replaced.
func (s *RecordStore) CreateTask(fields models.Task) (*models.Task, error) {
	if err := checkStorable(fields); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasksLocked()
	if err != nil {
		return nil, err
	}

	id, err := s.newID(constants.TaskIDPrefix)
	if err != nil {
		return nil, err
	}
	fields.ID = id

	if err := s.writeLocked(constants.StorageKeyTasks, append(tasks, fields)); err != nil {
		return nil, err
	}
	return &fields, nil
}

// UpdateTask implements TaskRepository. Storage is untouched when the task
// does not exist.
func (s *RecordStore) UpdateTask(id string, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasksLocked()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		updated := patch.Apply(tasks[i])
		updated.ID = id
		if err := checkStorable(updated); err != nil {
			return nil, err
		}
		tasks[i] = updated
		if err := s.writeLocked(constants.StorageKeyTasks, tasks); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, ErrTaskNotFound
}

// checkStorable rejects enum values the tasks entry could not decode again,
// since one unreadable element discards the whole collection on read.
func checkStorable(t models.Task) error {
	if !t.Status.Storable() {
		return fmt.Errorf("%w: unknown status %q", ErrUnstorableTask, t.Status)
	}
	if !t.Priority.Storable() {
		return fmt.Errorf("%w: unknown priority %q", ErrUnstorableTask, t.Priority)
	}
	return nil
}

// DeleteTask implements TaskRepository.
func (s *RecordStore) DeleteTask(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasksLocked()
	if err != nil {
		return false, err
	}
	remaining := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == len(tasks) {
		return false, nil
	}
	if err := s.writeLocked(constants.StorageKeyTasks, remaining); err != nil {
		return false, err
	}
	return true, nil
}

// GetSession implements SessionRepository. A stored value that cannot be
// decoded reads as no session.
func (s *RecordStore) GetSession() (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(constants.StorageKeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var session *models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		log.Printf("Discarding unreadable %s entry: %v", constants.StorageKeyCurrentUser, err)
		return nil, nil
	}
	if session == nil || session.Role == models.RoleUnknown {
		return nil, nil
	}
	return session, nil
}

// SetSession implements SessionRepository.
func (s *RecordStore) SetSession(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session == nil {
		return s.kv.Delete(constants.StorageKeyCurrentUser)
	}
	return s.writeLocked(constants.StorageKeyCurrentUser, session)
}

// ListDynamicCredentials implements CredentialRepository.
func (s *RecordStore) ListDynamicCredentials() ([]models.LoginCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dynamicCredentialsLocked()
}

func (s *RecordStore) employeesLocked() ([]models.Employee, error) {
	return readCollection(s, constants.StorageKeyEmployees, s.seed.Employees)
}

func (s *RecordStore) tasksLocked() ([]models.Task, error) {
	return readCollection(s, constants.StorageKeyTasks, s.seed.Tasks)
}

func (s *RecordStore) dynamicCredentialsLocked() ([]models.LoginCredential, error) {
	return readCollection(s, constants.StorageKeyDynamicUsers, []models.LoginCredential{})
}

// readCollection decodes the collection at key. A missing or undecodable
// value is replaced by the seed, which is written back before returning.
// A stored empty list is returned as is.
func readCollection[T any](s *RecordStore, key string, seed []T) ([]T, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, err
	}
	if ok {
		var items []T
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("Discarding unreadable %s entry: %v", key, err)
		} else if items != nil {
			return items, nil
		}
	}

	items := make([]T, len(seed))
	copy(items, seed)
	if err := s.writeLocked(key, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RecordStore) writeLocked(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(key, string(data))
}
