package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/repository"
	"github.com/yukikurage/staffdesk/internal/utils"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrAssigneeRequired       = errors.New("assigned employee is required")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidPriority        = errors.New("invalid task priority")
	ErrInvalidDueDate         = errors.New("due date must be formatted as YYYY-MM-DD")
	ErrTaskPermissionDenied   = errors.New("session may not modify this task")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// UnassignedName is shown for tasks whose assignee is not in the directory.
const UnassignedName = "Unassigned"

// TaskEventPublisher receives task changes after they are persisted.
type TaskEventPublisher interface {
	PublishTaskEvent(event models.TaskEvent)
}

// TaskGenerator turns free text into task drafts.
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	employeeRepo repository.EmployeeRepository
	publisher    TaskEventPublisher
	generator    TaskGenerator
}

// NewTaskService creates a new TaskService. publisher and generator may be nil.
func NewTaskService(taskRepo repository.TaskRepository, employeeRepo repository.EmployeeRepository, publisher TaskEventPublisher, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		generator:    generator,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Query      string
	AssignedTo *string
	Status     *models.TaskStatus
	Offset     int
	Limit      int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	DueDate     string
	Status      models.TaskStatus
	Priority    models.TaskPriority
}

// ListTasks returns the tasks matching input and the total before paging.
// Query matches title, description and assignee name, ignoring case.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	tasks, err := s.taskRepo.ListTasks()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	names, err := s.AssigneeNames()
	if err != nil {
		return nil, 0, err
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))
	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if input.AssignedTo != nil && t.AssignedTo != *input.AssignedTo {
			continue
		}
		if input.Status != nil && t.Status != *input.Status {
			continue
		}
		if query != "" && !matchesQuery(t, names.Name(t.AssignedTo), query) {
			continue
		}
		matched = append(matched, t)
	}

	total := int64(len(matched))
	if input.Limit > 0 {
		matched = utils.Paginate(matched, utils.PaginationParams{Offset: input.Offset, Limit: input.Limit})
	}
	return matched, total, nil
}

func matchesQuery(t models.Task, assignee, query string) bool {
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query) ||
		strings.Contains(strings.ToLower(assignee), query)
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(id string) (*models.Task, error) {
	task, err := s.taskRepo.GetTask(id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask validates input, applies defaults and stores the task
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.AssignedTo = strings.TrimSpace(input.AssignedTo)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.AssignedTo == "" {
		return nil, ErrAssigneeRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if err := validateTaskFields(&input.Status, &input.Priority, &input.DueDate); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.CreateTask(models.Task{
		Title:       input.Title,
		Description: input.Description,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		Status:      input.Status,
		Priority:    input.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publish(models.TaskEvent{Type: models.TaskEventCreated, Task: *task})
	return task, nil
}

// UpdateTask applies an admin edit to any field of a task
func (s *TaskService) UpdateTask(id string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		patch.Title = &title
	}
	if patch.AssignedTo != nil && strings.TrimSpace(*patch.AssignedTo) == "" {
		return nil, ErrAssigneeRequired
	}
	if err := validateTaskFields(patch.Status, patch.Priority, patch.DueDate); err != nil {
		return nil, err
	}

	before, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.UpdateTask(id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	event := models.TaskEvent{Type: models.TaskEventUpdated, Task: *task}
	if before.AssignedTo != task.AssignedTo {
		event.PreviousAssignee = before.AssignedTo
	}
	s.publish(event)
	return task, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(id string) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}

	removed, err := s.taskRepo.DeleteTask(id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !removed {
		return ErrTaskNotFound
	}

	s.publish(models.TaskEvent{Type: models.TaskEventDeleted, Task: *task})
	return nil
}

// ListOwnTasks returns the tasks assigned to the session's employee
func (s *TaskService) ListOwnTasks(session *models.Session) ([]models.Task, error) {
	if session == nil || !session.Role.CanUpdateOwnTaskStatus() || session.EmployeeID == nil {
		return []models.Task{}, nil
	}
	tasks, _, err := s.ListTasks(ListTasksInput{AssignedTo: session.EmployeeID})
	return tasks, err
}

// UpdateOwnTaskStatus lets an employee move one of their own tasks to a new
// status. Tasks assigned to someone else are reported as not found.
func (s *TaskService) UpdateOwnTaskStatus(session *models.Session, id string, status models.TaskStatus) (*models.Task, error) {
	if session == nil || !session.Role.CanUpdateOwnTaskStatus() {
		return nil, ErrTaskPermissionDenied
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if !session.Owns(*task) {
		return nil, ErrTaskNotFound
	}

	updated, err := s.taskRepo.UpdateTask(id, models.TaskPatch{Status: &status})
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.publish(models.TaskEvent{Type: models.TaskEventUpdated, Task: *updated})
	return updated, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text       string
	AssignedTo string
}

// GenerateTasks asks the generator for drafts from free text and stores the
// usable ones, all assigned to input.AssignedTo.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]models.Task, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.AssignedTo) == "" {
		return nil, ErrAssigneeRequired
	}

	drafts, err := s.generator.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	created := make([]models.Task, 0, len(drafts))
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Title) == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, draft.DueDate); err != nil {
			draft.DueDate = ""
		}
		priority := models.TaskPriority(draft.Priority)
		if !priority.Valid() {
			priority = models.TaskPriorityMedium
		}

		task, err := s.CreateTask(CreateTaskInput{
			Title:       draft.Title,
			Description: draft.Description,
			AssignedTo:  input.AssignedTo,
			DueDate:     draft.DueDate,
			Priority:    priority,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, *task)
	}

	if len(created) == 0 {
		return nil, ErrAINoValidTasks
	}
	return created, nil
}

// AssigneeDirectory maps employee IDs to display names.
type AssigneeDirectory map[string]string

// Name returns the employee's name, or UnassignedName for unknown IDs.
func (d AssigneeDirectory) Name(employeeID string) string {
	if name, ok := d[employeeID]; ok {
		return name
	}
	return UnassignedName
}

// AssigneeNames loads the current employee directory.
func (s *TaskService) AssigneeNames() (AssigneeDirectory, error) {
	employees, err := s.employeeRepo.ListEmployees()
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	names := make(AssigneeDirectory, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names, nil
}

func (s *TaskService) publish(event models.TaskEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishTaskEvent(event)
	log.Printf("Published %s for %s", event.Type, event.Task.ID)
}

func validateTaskFields(status *models.TaskStatus, priority *models.TaskPriority, dueDate *string) error {
	if status != nil && !status.Valid() {
		return ErrInvalidStatus
	}
	if priority != nil && !priority.Valid() {
		return ErrInvalidPriority
	}
	if dueDate != nil && *dueDate != "" {
		if _, err := time.Parse(models.DateLayout, *dueDate); err != nil {
			return ErrInvalidDueDate
		}
	}
	return nil
}
