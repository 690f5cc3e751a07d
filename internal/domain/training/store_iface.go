package training

import "context"

type StoreAPI interface {
	Get(ctx context.Context, trainingID string) (Training, error)
	List(ctx context.Context, status string, limit, offset int) ([]Training, error)
	Create(ctx context.Context, input TrainingInput, createdBy string) (string, error)
	Update(ctx context.Context, trainingID string, input TrainingInput) error
	UpdateStatus(ctx context.Context, trainingID, status string) error

	EnrollmentCount(ctx context.Context, trainingID string) (int, error)
	IsEnrolled(ctx context.Context, trainingID, employeeID string) (bool, error)
	Enroll(ctx context.Context, trainingID, employeeID string) (string, error)
	Withdraw(ctx context.Context, trainingID, employeeID string) error
	ListEnrollments(ctx context.Context, trainingID string) ([]Enrollment, error)
}
