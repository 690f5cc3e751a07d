package messages

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("message not found")
	ErrSelfMessage = errors.New("cannot message yourself")
)

type Message struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"senderId"`
	RecipientID string     `json:"recipientId"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Send(ctx context.Context, senderID, recipientID, body string) (string, error) {
	if senderID == recipientID {
		return "", ErrSelfMessage
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO messages (sender_id, recipient_id, body)
    VALUES ($1, $2, $3)
    RETURNING id
  `, senderID, recipientID, body).Scan(&id)
	return id, err
}

// Conversation lists messages between two users, newest first.
func (s *Service) Conversation(ctx context.Context, userID, otherID string, limit, offset int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, sender_id, recipient_id, body, read_at, created_at
    FROM messages
    WHERE (sender_id = $1 AND recipient_id = $2)
       OR (sender_id = $2 AND recipient_id = $1)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, userID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Inbox lists the latest message per correspondent for the user.
func (s *Service) Inbox(ctx context.Context, userID string, limit, offset int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT ON (LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id))
           id, sender_id, recipient_id, body, read_at, created_at
    FROM messages
    WHERE sender_id = $1 OR recipient_id = $1
    ORDER BY LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id), created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Service) MarkRead(ctx context.Context, userID, messageID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE messages
    SET read_at = now()
    WHERE id = $1 AND recipient_id = $2 AND read_at IS NULL
  `, messageID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM messages
    WHERE recipient_id = $1 AND read_at IS NULL
  `, userID).Scan(&count)
	return count, err
}
