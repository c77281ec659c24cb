package models

import (
	"fmt"
	"strings"
	"time"
)

// Status names the board column a task belongs to.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the label shown on a task card.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// UnknownPriorityRank is the rank of any label outside High, Medium and Low.
// It sorts after every recognized priority.
const UnknownPriorityRank = 4

// Rank returns the sort key of the priority. Lower ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return UnknownPriorityRank
	}
}

// Valid reports whether p is a recognized priority label.
func (p Priority) Valid() bool {
	return p.Rank() != UnknownPriorityRank
}

// Fields holds everything about a task except its identifier. It is the
// draft edited on the editing surface and the record sent to the store.
type Fields struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Date        time.Time `json:"date"`
	Priority    Priority  `json:"priority"`
}

// Task is a single card on the board.
type Task struct {
	ID string `json:"id"`
	Fields
}

// DefaultFields returns the draft used when a new task is created.
func DefaultFields(now time.Time) Fields {
	return Fields{
		Status:   StatusTodo,
		Priority: PriorityMedium,
		Date:     now,
	}
}

// ValidationError reports the first field of a draft that cannot be saved.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the draft before it is handed to the store.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if f.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if !f.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", f.Status)}
	}
	if !f.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", f.Priority)}
	}
	return nil
}

// WithStatus returns a copy of the fields moved to another column.
func (f Fields) WithStatus(s Status) Fields {
	f.Status = s
	return f
}
