package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/platform/config"
)

const (
	JobDeadlineEnforcement = "evaluation_deadline_enforcement"
	JobAnnouncementExpiry  = "announcement_expiry"
)

// Service runs background maintenance through a single worker goroutine.
// Every run is recorded in job_runs so operators can audit what fired.
type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.DeadlineEnforceInterval > 0 {
		go s.schedule(ctx, s.Cfg.DeadlineEnforceInterval, JobDeadlineEnforcement, s.enforceDeadlines)
	}
	if s.Cfg.AnnouncementSweep > 0 {
		go s.schedule(ctx, s.Cfg.AnnouncementSweep, JobAnnouncementExpiry, s.expireAnnouncements)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

// enforceDeadlines closes active evaluation periods whose HR deadline has
// passed. Submissions and reviews stop being accepted once the period is
// closed, so this is the deadline taking effect.
func (s *Service) enforceDeadlines(ctx context.Context) (any, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_periods
    SET status = 'closed', updated_at = now()
    WHERE status = 'active'
      AND hr_evaluation_deadline IS NOT NULL
      AND hr_evaluation_deadline < now()
  `)
	if err != nil {
		return nil, err
	}
	closed := tag.RowsAffected()
	if closed > 0 {
		slog.Info("evaluation periods closed by deadline", "count", closed)
	}
	return map[string]any{"periodsClosed": closed}, nil
}

func (s *Service) expireAnnouncements(ctx context.Context) (any, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE announcements
    SET is_active = false, updated_at = now()
    WHERE is_active = true
      AND expires_at IS NOT NULL
      AND expires_at < now()
  `)
	if err != nil {
		return nil, err
	}
	return map[string]any{"announcementsExpired": tag.RowsAffected()}, nil
}
