package attendance

import (
	"context"
	"errors"
	"time"
)

type Service struct {
	store        *Store
	workdayStart string
	now          func() time.Time
}

func NewService(store *Store, workdayStart string) *Service {
	return &Service{store: store, workdayStart: workdayStart, now: time.Now}
}

// CheckIn opens today's attendance record. A second check-in on the same
// day is rejected.
func (s *Service) CheckIn(ctx context.Context, employeeID, note string) (Record, error) {
	now := s.now()
	if _, err := s.store.RecordForDay(ctx, employeeID, now); err == nil {
		return Record{}, ErrAlreadyCheckedIn
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	status := DeriveStatus(now, s.workdayStart)
	if _, err := s.store.InsertCheckIn(ctx, employeeID, now, status, note); err != nil {
		return Record{}, err
	}
	return s.store.RecordForDay(ctx, employeeID, now)
}

// CheckOut closes today's record and records the worked duration.
func (s *Service) CheckOut(ctx context.Context, employeeID string) (Record, error) {
	now := s.now()
	rec, err := s.store.RecordForDay(ctx, employeeID, now)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, err
	}
	if rec.CheckIn == nil {
		return Record{}, ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}

	if err := s.store.SetCheckOut(ctx, rec.ID, now, WorkedMinutes(*rec.CheckIn, now)); err != nil {
		return Record{}, err
	}
	return s.store.RecordForDay(ctx, employeeID, now)
}

func (s *Service) ListRecords(ctx context.Context, filter Filter) ([]Record, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.ListRecords(ctx, filter)
}

func (s *Service) Summary(ctx context.Context, employeeID string, from, to time.Time) (Summary, error) {
	return s.store.Summary(ctx, employeeID, from, to)
}
