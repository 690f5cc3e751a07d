package training

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// memStore is an in-memory StoreAPI for exercising the lifecycle and
// enrollment rules without a database.
type memStore struct {
	seq         int
	trainings   map[string]*Training
	enrollments map[string][]Enrollment
}

func newMemStore() *memStore {
	return &memStore{
		trainings:   map[string]*Training{},
		enrollments: map[string][]Enrollment{},
	}
}

func (m *memStore) Get(_ context.Context, trainingID string) (Training, error) {
	t, ok := m.trainings[trainingID]
	if !ok {
		return Training{}, ErrNotFound
	}
	return *t, nil
}

func (m *memStore) List(_ context.Context, status string, _, _ int) ([]Training, error) {
	var out []Training
	for _, t := range m.trainings {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) Create(_ context.Context, input TrainingInput, createdBy string) (string, error) {
	m.seq++
	id := fmt.Sprintf("training-%d", m.seq)
	m.trainings[id] = &Training{
		ID:        id,
		Title:     input.Title,
		StartAt:   input.StartAt,
		EndAt:     input.EndAt,
		Capacity:  input.Capacity,
		Status:    StatusScheduled,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	return id, nil
}

func (m *memStore) Update(_ context.Context, trainingID string, input TrainingInput) error {
	t, ok := m.trainings[trainingID]
	if !ok {
		return ErrNotFound
	}
	t.Title = input.Title
	t.Capacity = input.Capacity
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, trainingID, status string) error {
	t, ok := m.trainings[trainingID]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	return nil
}

func (m *memStore) EnrollmentCount(_ context.Context, trainingID string) (int, error) {
	count := 0
	for _, e := range m.enrollments[trainingID] {
		if e.Status != EnrollmentWithdrawn {
			count++
		}
	}
	return count, nil
}

func (m *memStore) IsEnrolled(_ context.Context, trainingID, employeeID string) (bool, error) {
	for _, e := range m.enrollments[trainingID] {
		if e.EmployeeID == employeeID && e.Status != EnrollmentWithdrawn {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Enroll(_ context.Context, trainingID, employeeID string) (string, error) {
	m.seq++
	id := fmt.Sprintf("enrollment-%d", m.seq)
	m.enrollments[trainingID] = append(m.enrollments[trainingID], Enrollment{
		ID:         id,
		TrainingID: trainingID,
		EmployeeID: employeeID,
		Status:     EnrollmentEnrolled,
		EnrolledAt: time.Now(),
	})
	return id, nil
}

func (m *memStore) Withdraw(_ context.Context, trainingID, employeeID string) error {
	for i, e := range m.enrollments[trainingID] {
		if e.EmployeeID == employeeID && e.Status != EnrollmentWithdrawn {
			m.enrollments[trainingID][i].Status = EnrollmentWithdrawn
			return nil
		}
	}
	return ErrNotEnrolled
}

func (m *memStore) ListEnrollments(_ context.Context, trainingID string) ([]Enrollment, error) {
	return m.enrollments[trainingID], nil
}

func newTraining(t *testing.T, svc *Service, capacity int) string {
	t.Helper()
	id, err := svc.Create(context.Background(), TrainingInput{
		Title:    "Onboarding basics",
		StartAt:  time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2025, 2, 1, 17, 0, 0, 0, time.UTC),
		Capacity: capacity,
	}, "admin-1")
	if err != nil {
		t.Fatalf("create training: %v", err)
	}
	return id
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)
	id := newTraining(t, svc, 0)

	if err := svc.UpdateStatus(ctx, id, StatusOngoing); err != nil {
		t.Fatalf("scheduled -> ongoing: %v", err)
	}
	if err := svc.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		t.Fatalf("ongoing -> completed: %v", err)
	}
}

func TestUpdateStatusRejectsRevival(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)

	completed := newTraining(t, svc, 0)
	store.trainings[completed].Status = StatusCompleted
	if err := svc.UpdateStatus(ctx, completed, StatusScheduled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed -> scheduled: expected ErrInvalidTransition, got %v", err)
	}

	cancelled := newTraining(t, svc, 0)
	store.trainings[cancelled].Status = StatusCancelled
	if err := svc.UpdateStatus(ctx, cancelled, StatusOngoing); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancelled -> ongoing: expected ErrInvalidTransition, got %v", err)
	}

	if store.trainings[completed].Status != StatusCompleted {
		t.Fatalf("completed training mutated to %s", store.trainings[completed].Status)
	}
}

func TestUpdateStatusRejectsSkippingOngoing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	id := newTraining(t, svc, 0)

	if err := svc.UpdateStatus(ctx, id, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("scheduled -> completed: expected ErrInvalidTransition, got %v", err)
	}
}

func TestEnrollRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	id := newTraining(t, svc, 2)

	if _, err := svc.Enroll(ctx, id, "emp-1"); err != nil {
		t.Fatalf("enroll emp-1: %v", err)
	}
	if _, err := svc.Enroll(ctx, id, "emp-2"); err != nil {
		t.Fatalf("enroll emp-2: %v", err)
	}
	if _, err := svc.Enroll(ctx, id, "emp-3"); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
}

func TestEnrollZeroCapacityIsUnlimited(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	id := newTraining(t, svc, 0)

	for i := 1; i <= 5; i++ {
		if _, err := svc.Enroll(ctx, id, fmt.Sprintf("emp-%d", i)); err != nil {
			t.Fatalf("enroll emp-%d: %v", i, err)
		}
	}
}

func TestEnrollOnlyWhileScheduled(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)
	id := newTraining(t, svc, 0)

	store.trainings[id].Status = StatusOngoing
	if _, err := svc.Enroll(ctx, id, "emp-1"); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	id := newTraining(t, svc, 0)

	if _, err := svc.Enroll(ctx, id, "emp-1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.Enroll(ctx, id, "emp-1"); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestWithdrawFreesSeat(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	id := newTraining(t, svc, 1)

	if _, err := svc.Enroll(ctx, id, "emp-1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := svc.Withdraw(ctx, id, "emp-1"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := svc.Enroll(ctx, id, "emp-2"); err != nil {
		t.Fatalf("enroll after withdrawal: %v", err)
	}
}
