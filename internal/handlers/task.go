package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/dto"
	apierrors "github.com/yukikurage/staffdesk/internal/errors"
	"github.com/yukikurage/staffdesk/internal/middleware"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/services"
	"github.com/yukikurage/staffdesk/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks matching the optional q, assignedTo and status
// filters, one page at a time
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Query:  c.Query("q"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}
	if assignee := c.Query("assignedTo"); assignee != "" {
		input.AssignedTo = &assignee
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, services.ErrInvalidStatus.Error())
			return
		}
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	names, err := h.taskService.AssigneeNames()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, names, params, total))
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	h.respondTask(c, http.StatusOK, task)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	h.respondTask(c, http.StatusCreated, task)
}

// UpdateTask applies the fields present in the body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Param("id"), req.Patch())
	if err != nil {
		respondTaskError(c, err)
		return
	}
	h.respondTask(c, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks drafts tasks from free text with the AI service
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:       req.Text,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	names, err := h.taskService.AssigneeNames()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tasks generated successfully",
		"tasks":   dto.ToTaskDTOs(tasks, names),
	})
}

// ListMyTasks returns the tasks assigned to the signed-in employee
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	tasks, err := h.taskService.ListOwnTasks(session)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	names, err := h.taskService.AssigneeNames()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks, names),
	})
}

// UpdateMyTaskStatus moves one of the employee's own tasks to a new status
func (h *TaskHandler) UpdateMyTaskStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, services.ErrInvalidStatus.Error())
		return
	}

	session, _ := middleware.GetSession(c)
	task, err := h.taskService.UpdateOwnTaskStatus(session, c.Param("id"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	h.respondTask(c, http.StatusOK, task)
}

func (h *TaskHandler) respondTask(c *gin.Context, status int, task *models.Task) {
	names, err := h.taskService.AssigneeNames()
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(status, dto.ToTaskDTO(*task, names))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrAssigneeRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidDueDate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		log.Printf("Task error: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
