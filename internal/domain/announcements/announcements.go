package announcements

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("announcement not found")

type Announcement struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	AuthorID  string     `json:"authorId"`
	Pinned    bool       `json:"pinned"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Input struct {
	Title     string
	Body      string
	Pinned    bool
	ExpiresAt *time.Time
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

const columns = `
    id, title, body, author_id, pinned, is_active, expires_at, created_at, updated_at`

func scan(row pgx.Row) (Announcement, error) {
	var a Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.Pinned, &a.IsActive, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Announcement{}, ErrNotFound
	}
	return a, err
}

func (s *Service) Get(ctx context.Context, announcementID string) (Announcement, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+columns+`
    FROM announcements
    WHERE id = $1
  `, announcementID)
	return scan(row)
}

// List returns active announcements, pinned first. Expired rows are
// filtered here as well as being swept by the background job.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Announcement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.DB.Query(ctx, `
    SELECT`+columns+`
    FROM announcements
    WHERE is_active = true
      AND (expires_at IS NULL OR expires_at > now())
    ORDER BY pinned DESC, created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, input Input, authorID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (title, body, author_id, pinned, is_active, expires_at)
    VALUES ($1, $2, $3, $4, true, $5)
    RETURNING id
  `, input.Title, input.Body, authorID, input.Pinned, input.ExpiresAt).Scan(&id)
	return id, err
}

func (s *Service) Update(ctx context.Context, announcementID string, input Input) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE announcements
    SET title = $1, body = $2, pinned = $3, expires_at = $4, updated_at = now()
    WHERE id = $5
  `, input.Title, input.Body, input.Pinned, input.ExpiresAt, announcementID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Deactivate(ctx context.Context, announcementID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE announcements
    SET is_active = false, updated_at = now()
    WHERE id = $1
  `, announcementID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
