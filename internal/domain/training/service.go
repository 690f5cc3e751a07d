package training

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, trainingID string) (Training, error) {
	return s.store.Get(ctx, trainingID)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]Training, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, status, limit, offset)
}

func (s *Service) Create(ctx context.Context, input TrainingInput, createdBy string) (string, error) {
	return s.store.Create(ctx, input, createdBy)
}

func (s *Service) Update(ctx context.Context, trainingID string, input TrainingInput) error {
	return s.store.Update(ctx, trainingID, input)
}

// UpdateStatus moves a training along its lifecycle. Completed and cancelled
// trainings cannot be revived.
func (s *Service) UpdateStatus(ctx context.Context, trainingID, status string) error {
	t, err := s.store.Get(ctx, trainingID)
	if err != nil {
		return err
	}
	if !CanTransition(t.Status, status) {
		return ErrInvalidTransition
	}
	return s.store.UpdateStatus(ctx, trainingID, status)
}

// Enroll adds the employee to a scheduled training, respecting capacity.
// A zero capacity means unlimited seats.
func (s *Service) Enroll(ctx context.Context, trainingID, employeeID string) (string, error) {
	t, err := s.store.Get(ctx, trainingID)
	if err != nil {
		return "", err
	}
	if t.Status != StatusScheduled {
		return "", ErrNotOpen
	}
	if enrolled, err := s.store.IsEnrolled(ctx, trainingID, employeeID); err != nil {
		return "", err
	} else if enrolled {
		return "", ErrAlreadyEnrolled
	}
	if t.Capacity > 0 {
		count, err := s.store.EnrollmentCount(ctx, trainingID)
		if err != nil {
			return "", err
		}
		if count >= t.Capacity {
			return "", ErrFull
		}
	}
	return s.store.Enroll(ctx, trainingID, employeeID)
}

func (s *Service) Withdraw(ctx context.Context, trainingID, employeeID string) error {
	return s.store.Withdraw(ctx, trainingID, employeeID)
}

func (s *Service) ListEnrollments(ctx context.Context, trainingID string) ([]Enrollment, error) {
	return s.store.ListEnrollments(ctx, trainingID)
}
