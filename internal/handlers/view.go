package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/dto"
	"github.com/yukikurage/staffdesk/internal/middleware"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/services"
	"github.com/yukikurage/staffdesk/internal/utils"
)

// ViewHandler renders the JSON view models behind each page. Access has
// already been decided by middleware.RequireView.
type ViewHandler struct {
	taskService      *services.TaskService
	employeeService  *services.EmployeeService
	dashboardService *services.DashboardService
}

func NewViewHandler(taskService *services.TaskService, employeeService *services.EmployeeService, dashboardService *services.DashboardService) *ViewHandler {
	return &ViewHandler{
		taskService:      taskService,
		employeeService:  employeeService,
		dashboardService: dashboardService,
	}
}

func (h *ViewHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view": "login"})
}

// Root sends a signed-in session on to its dashboard.
func (h *ViewHandler) Root(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	if target := session.Role.DefaultView(); target != models.RootView {
		c.Redirect(http.StatusFound, target)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "home", "session": dto.ToSessionDTO(*session)})
}

func (h *ViewHandler) AdminDashboard(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	stats, err := h.dashboardService.AdminStats()
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":    "admin-dashboard",
		"session": dto.ToSessionDTO(*session),
		"stats":   stats,
	})
}

func (h *ViewHandler) AdminEmployees(c *gin.Context) {
	employees, err := h.employeeService.ListEmployees()
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":      "admin-employees",
		"employees": employees,
		"managed":   h.employeeService.Managed(),
	})
}

func (h *ViewHandler) AdminEmployeeAdd(c *gin.Context) {
	view := gin.H{
		"view":    "admin-employee-add",
		"managed": h.employeeService.Managed(),
	}
	if h.employeeService.Managed() {
		view["defaultPassword"] = constants.DefaultEmployeePassword
	}
	c.JSON(http.StatusOK, view)
}

func (h *ViewHandler) AdminEmployeeEdit(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Param("employeeId"))
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":     "admin-employee-edit",
		"employee": employee,
		"managed":  h.employeeService.Managed(),
	})
}

// AdminTasks is the searchable task table.
func (h *ViewHandler) AdminTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{Query: c.Query("q"), Offset: params.Offset, Limit: params.Limit}
	if assignee := c.Query("assignedTo"); assignee != "" {
		input.AssignedTo = &assignee
	}
	if raw := c.Query("status"); raw != "" {
		if status := models.TaskStatus(raw); status.Valid() {
			input.Status = &status
		}
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
	employees, err := h.employeeService.ListEmployees()
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	list := dto.ToTaskListResponse(tasks, names, params, total)
	c.JSON(http.StatusOK, gin.H{
		"view":       "admin-tasks",
		"tasks":      list.Tasks,
		"pagination": list.Pagination,
		"employees":  employees,
		"statuses":   models.TaskStatuses,
	})
}

func (h *ViewHandler) AdminTaskAdd(c *gin.Context) {
	employees, err := h.employeeService.ListEmployees()
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":       "admin-task-add",
		"employees":  employees,
		"statuses":   models.TaskStatuses,
		"priorities": models.TaskPriorities,
	})
}

func (h *ViewHandler) AdminTaskEdit(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Param("taskId"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	names, err := h.taskService.AssigneeNames()
	if err != nil {
		respondTaskError(c, err)
		return
	}
	employees, err := h.employeeService.ListEmployees()
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":       "admin-task-edit",
		"task":       dto.ToTaskDTO(*task, names),
		"employees":  employees,
		"statuses":   models.TaskStatuses,
		"priorities": models.TaskPriorities,
	})
}

func (h *ViewHandler) EmployeeDashboard(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	var employeeID string
	if session.EmployeeID != nil {
		employeeID = *session.EmployeeID
	}
	stats, err := h.dashboardService.EmployeeStats(employeeID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":    "employee-dashboard",
		"session": dto.ToSessionDTO(*session),
		"stats":   stats,
	})
}

func (h *ViewHandler) EmployeeTasks(c *gin.Context) {
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
		"view":     "employee-tasks",
		"tasks":    dto.ToTaskDTOs(tasks, names),
		"statuses": models.TaskStatuses,
	})
}
