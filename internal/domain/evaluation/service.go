package evaluation

import (
	"context"
	"time"
)

type Service struct {
	store StoreAPI

	rosterStatuses []string
	useHRScores    bool
	now            func() time.Time
}

type Option func(*Service)

// WithRosterStatuses restricts which employee statuses receive an evaluation
// during fan-out. The default is active employees only.
func WithRosterStatuses(statuses []string) Option {
	return func(s *Service) {
		if len(statuses) > 0 {
			s.rosterStatuses = statuses
		}
	}
}

// WithHRScores blends per-answer HR scores into the total instead of relying
// on self scores alone.
func WithHRScores(enabled bool) Option {
	return func(s *Service) {
		s.useHRScores = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store StoreAPI, opts ...Option) *Service {
	s := &Service{
		store:          store,
		rosterStatuses: []string{"active"},
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}

func (s *Service) UserIDByEmployeeID(ctx context.Context, employeeID string) (string, error) {
	return s.store.UserIDByEmployeeID(ctx, employeeID)
}

func (s *Service) ListDefaultCriteria(ctx context.Context) ([]Criterion, error) {
	return s.store.ListDefaultCriteria(ctx)
}
