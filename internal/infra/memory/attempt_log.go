package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sala-quiz-service/internal/domain"
)

// AttemptLog is an in-memory implementation of app.AttemptStore for
// deployments without Postgres, and for tests. Records are kept for the
// process lifetime only.
type AttemptLog struct {
	mu          sync.Mutex
	seq         int
	participant string
	attempts    map[string]*loggedAttempt
}

type loggedAttempt struct {
	Room          string
	Participant   string
	StartedAt     time.Time
	QuestionCount int
	Result        *domain.AttemptResult
}

func NewAttemptLog() *AttemptLog {
	return &AttemptLog{attempts: make(map[string]*loggedAttempt)}
}

func (l *AttemptLog) EnsureParticipant(_ context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.participant == "" {
		l.participant = "participant-1"
	}
	return l.participant, nil
}

func (l *AttemptLog) CreateAttempt(_ context.Context, room, participant string, startedAt time.Time, questionCount int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	id := fmt.Sprintf("attempt-%d", l.seq)
	l.attempts[id] = &loggedAttempt{
		Room:          room,
		Participant:   participant,
		StartedAt:     startedAt,
		QuestionCount: questionCount,
	}
	return id, nil
}

func (l *AttemptLog) FinishAttempt(_ context.Context, attemptID string, result domain.AttemptResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	attempt, ok := l.attempts[attemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	attempt.Result = &result
	return nil
}

// Finished returns the recorded result for an attempt, nil while unfinished.
func (l *AttemptLog) Finished(attemptID string) *domain.AttemptResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	if attempt, ok := l.attempts[attemptID]; ok {
		return attempt.Result
	}
	return nil
}
