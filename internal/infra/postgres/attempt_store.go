package postgres

import (
	"context"
	"fmt"

	"time"

	"sala-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore logs quiz attempts to Postgres. It implements
// app.AttemptStore; callers treat every method as best-effort.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

// EnsureParticipant resolves a stable participant ID: reuse the one on the
// most recent attempt, else any existing participant, else create an
// anonymous one.
func (s *AttemptStore) EnsureParticipant(ctx context.Context) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		SELECT participant_id::text FROM attempts
		WHERE participant_id IS NOT NULL
		ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = s.pool.QueryRow(ctx, `SELECT id::text FROM participants LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO participants DEFAULT VALUES
		RETURNING id::text`).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create participant: %w", err)
	}
	return id, nil
}

// CreateAttempt opens a new attempt record, resolving the room by slug
// first, then by name, then falling back to any room so an unknown slug
// never blocks logging.
func (s *AttemptStore) CreateAttempt(ctx context.Context, room, participant string, startedAt time.Time, questionCount int) (string, error) {
	roomID := s.resolveRoom(ctx, room)

	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO attempts (room_id, room_slug, participant_id, started_at, question_count)
		VALUES (NULLIF($1,'')::uuid, $2, NULLIF($3,'')::uuid, $4, $5)
		RETURNING id::text`,
		roomID, room, participant, startedAt, questionCount).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create attempt: %w", err)
	}
	return id, nil
}

// FinishAttempt closes an attempt with its final tallies and status.
func (s *AttemptStore) FinishAttempt(ctx context.Context, attemptID string, result domain.AttemptResult) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE attempts
		SET finished_at = $2,
		    correct_count = $3,
		    question_count = $4,
		    score_percent = $5,
		    total_points = $6,
		    status = $7
		WHERE id = $1::uuid`,
		attemptID, result.FinishedAt, result.CorrectCount, result.QuestionCount,
		result.ScorePercent, result.TotalPoints, string(result.Status))
	if err != nil {
		return fmt.Errorf("finish attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

func (s *AttemptStore) resolveRoom(ctx context.Context, slug string) string {
	var id string
	if err := s.pool.QueryRow(ctx, `SELECT id::text FROM rooms WHERE slug = $1 LIMIT 1`, slug).Scan(&id); err == nil {
		return id
	}
	if err := s.pool.QueryRow(ctx, `SELECT id::text FROM rooms WHERE name ILIKE '%' || $1 || '%' LIMIT 1`, slug).Scan(&id); err == nil {
		return id
	}
	if err := s.pool.QueryRow(ctx, `SELECT id::text FROM rooms LIMIT 1`).Scan(&id); err == nil {
		return id
	}
	return ""
}
