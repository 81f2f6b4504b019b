package models

import "time"

const (
	CategoryPersonal  = "Personal"
	CategoryWork      = "Work"
	CategoryGroceries = "Groceries"
	CategoryBills     = "Bills"
	CategoryHealth    = "Health"
	CategoryOther     = "Other"
)

// Categories lists every category a task may be filed under.
func Categories() []string {
	return []string{
		CategoryPersonal,
		CategoryWork,
		CategoryGroceries,
		CategoryBills,
		CategoryHealth,
		CategoryOther,
	}
}

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// Task belongs to exactly one user. DueDate and Priority are
// nullable: a task without a due date never becomes overdue.
type Task struct {
	ID        string
	UserID    string
	Title     string
	Category  string
	DueDate   *time.Time
	Priority  *int
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
