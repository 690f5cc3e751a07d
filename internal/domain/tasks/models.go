package tasks

import "time"

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TaskInput struct {
	Title       string
	Description string
	AssigneeID  string
	Priority    string
	DueDate     *time.Time
}

type Filter struct {
	AssigneeID string
	Status     string
	Limit      int
	Offset     int
}
