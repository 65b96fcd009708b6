package services

import (
	"fmt"

	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/repository"
)

// StatusCounts holds the number of tasks per status.
type StatusCounts struct {
	ToDo       int `json:"toDo"`
	InProgress int `json:"inProgress"`
	Review     int `json:"review"`
	Completed  int `json:"completed"`
}

func (c *StatusCounts) add(status models.TaskStatus) {
	switch status {
	case models.TaskStatusTodo:
		c.ToDo++
	case models.TaskStatusInProgress:
		c.InProgress++
	case models.TaskStatusReview:
		c.Review++
	case models.TaskStatusCompleted:
		c.Completed++
	}
}

type AdminStats struct {
	TotalEmployees int          `json:"totalEmployees"`
	TotalTasks     int          `json:"totalTasks"`
	ByStatus       StatusCounts `json:"byStatus"`
}

type EmployeeStats struct {
	TotalAssignedTasks int          `json:"totalAssignedTasks"`
	ByStatus           StatusCounts `json:"byStatus"`
}

// DashboardService computes the summary numbers shown on dashboards.
type DashboardService struct {
	taskRepo     repository.TaskRepository
	employeeRepo repository.EmployeeRepository
}

func NewDashboardService(taskRepo repository.TaskRepository, employeeRepo repository.EmployeeRepository) *DashboardService {
	return &DashboardService{
		taskRepo:     taskRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *DashboardService) AdminStats() (*AdminStats, error) {
	employees, err := s.employeeRepo.ListEmployees()
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	tasks, err := s.taskRepo.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := &AdminStats{
		TotalEmployees: len(employees),
		TotalTasks:     len(tasks),
	}
	for _, t := range tasks {
		stats.ByStatus.add(t.Status)
	}
	return stats, nil
}

// EmployeeStats counts the tasks assigned to employeeID.
func (s *DashboardService) EmployeeStats(employeeID string) (*EmployeeStats, error) {
	tasks, err := s.taskRepo.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := &EmployeeStats{}
	for _, t := range tasks {
		if t.AssignedTo != employeeID {
			continue
		}
		stats.TotalAssignedTasks++
		stats.ByStatus.add(t.Status)
	}
	return stats, nil
}
