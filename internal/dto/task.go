package dto

import (
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/utils"
)

// AssigneeNamer resolves an employee ID to a display name.
type AssigneeNamer interface {
	Name(employeeID string) string
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	AssignedTo   string              `json:"assignedTo"`
	AssigneeName string              `json:"assigneeName"`
	DueDate      string              `json:"dueDate"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssignedTo  string              `json:"assignedTo"`
	DueDate     string              `json:"dueDate"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id. Absent fields are kept.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	AssignedTo  *string              `json:"assignedTo"`
	DueDate     *string              `json:"dueDate"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
}

// Patch converts the request into a task patch.
func (r UpdateTaskRequest) Patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
		Status:      r.Status,
		Priority:    r.Priority,
	}
}

// UpdateStatusRequest is the body of PATCH /api/my/tasks/:id/status
type UpdateStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// GenerateTasksRequest is the body of POST /api/tasks/generate
type GenerateTasksRequest struct {
	Text       string `json:"text" binding:"required"`
	AssignedTo string `json:"assignedTo" binding:"required"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, names AssigneeNamer) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		AssignedTo:   task.AssignedTo,
		AssigneeName: names.Name(task.AssignedTo),
		DueDate:      task.DueDate,
		Status:       task.Status,
		Priority:     task.Priority,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, names AssigneeNamer) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, names)
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, names AssigneeNamer, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Tasks: ToTaskDTOs(tasks, names),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
