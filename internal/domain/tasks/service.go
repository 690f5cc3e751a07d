package tasks

import (
	"context"
	"time"
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Get(ctx context.Context, taskID string) (Task, error) {
	return s.store.Get(ctx, taskID)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Task, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.List(ctx, filter)
}

func (s *Service) Create(ctx context.Context, input TaskInput, createdBy string) (string, error) {
	input.Priority = normalizePriority(input.Priority)
	return s.store.Create(ctx, input, createdBy)
}

func (s *Service) Update(ctx context.Context, taskID string, input TaskInput) error {
	input.Priority = normalizePriority(input.Priority)
	return s.store.Update(ctx, taskID, input)
}

// Transition moves a task along its workflow. Only the assignee may move
// their own task; callers with the assign permission pass actorIsManager.
func (s *Service) Transition(ctx context.Context, taskID, to, actorEmployeeID string, actorIsManager bool) (Task, error) {
	task, err := s.store.Get(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if !actorIsManager && task.AssigneeID != actorEmployeeID {
		return Task{}, ErrNotAssignee
	}
	if !CanTransition(task.Status, to) {
		return Task{}, ErrInvalidTransition
	}

	var completedAt *time.Time
	if to == StatusDone {
		now := s.now()
		completedAt = &now
	}
	if err := s.store.UpdateStatus(ctx, taskID, to, completedAt); err != nil {
		return Task{}, err
	}
	return s.store.Get(ctx, taskID)
}

func (s *Service) Delete(ctx context.Context, taskID string) error {
	return s.store.Delete(ctx, taskID)
}

func normalizePriority(priority string) string {
	for _, known := range Priorities {
		if priority == known {
			return priority
		}
	}
	return PriorityMedium
}
