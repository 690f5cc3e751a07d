package tasks

import "errors"

var (
	ErrNotFound          = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid task status transition")
	ErrNotAssignee       = errors.New("task belongs to another assignee")
)
