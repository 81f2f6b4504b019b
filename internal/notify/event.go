package notify

import (
	"time"

	"task-manager/internal/models"
)

const eventTaskDue = "taskDue"

// TaskDueEvent is pushed to every connected client when a task passes
// its due date without being completed.
type TaskDueEvent struct {
	Type string       `json:"type"`
	Task TaskSnapshot `json:"task"`
}

type TaskSnapshot struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	DueDate  *time.Time `json:"dueDate"`
	Priority *int       `json:"priority"`
}

func NewTaskDueEvent(task models.Task) TaskDueEvent {
	return TaskDueEvent{
		Type: eventTaskDue,
		Task: TaskSnapshot{
			ID:       task.ID,
			UserID:   task.UserID,
			Title:    task.Title,
			Category: task.Category,
			DueDate:  task.DueDate,
			Priority: task.Priority,
		},
	}
}
