package models

import (
	"encoding/json"
	"fmt"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusReview     TaskStatus = "Review"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every status in board order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusCompleted,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	}
	return false
}

// Storable reports whether s survives a write and read back. The blank
// status is kept as unset.
func (s TaskStatus) Storable() bool {
	return s == "" || s.Valid()
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !TaskStatus(raw).Storable() {
		return fmt.Errorf("unknown task status %q", raw)
	}
	*s = TaskStatus(raw)
	return nil
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// TaskPriorities lists every priority from lowest to highest.
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

func (p TaskPriority) Storable() bool {
	return p == "" || p.Valid()
}

func (p *TaskPriority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !TaskPriority(raw).Storable() {
		return fmt.Errorf("unknown task priority %q", raw)
	}
	*p = TaskPriority(raw)
	return nil
}

// DateLayout is the calendar-date format used for due and start dates.
const DateLayout = "2006-01-02"

type Task struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	AssignedTo  string       `json:"assignedTo" yaml:"assignedTo"`
	DueDate     string       `json:"dueDate" yaml:"dueDate"`
	Status      TaskStatus   `json:"status" yaml:"status"`
	Priority    TaskPriority `json:"priority" yaml:"priority"`
}

// TaskPatch carries the fields of a partial task update. Nil fields are left
// untouched. There is deliberately no ID field.
type TaskPatch struct {
	Title       *string
	Description *string
	AssignedTo  *string
	DueDate     *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// Apply merges the patch over t and returns the result.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}
