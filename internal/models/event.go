package models

type TaskEventType string

const (
	TaskEventCreated TaskEventType = "task.created"
	TaskEventUpdated TaskEventType = "task.updated"
	TaskEventDeleted TaskEventType = "task.deleted"
)

// TaskEvent describes a change to the task collection. PreviousAssignee is
// set when an update moved the task to someone else.
type TaskEvent struct {
	Type             TaskEventType `json:"type"`
	Task             Task          `json:"task"`
	PreviousAssignee string        `json:"previousAssignee,omitempty"`
}
