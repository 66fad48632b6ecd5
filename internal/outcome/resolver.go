package outcome

import (
	"math"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"sala-quiz-service/internal/domain"
	"sala-quiz-service/internal/session"
)

// Outcome is the externally visible result of a finished attempt.
type Outcome struct {
	Result      domain.AttemptResult
	Ticket      *domain.ClaimTicket // non-nil only on a perfect score
	NavigateURL string              // registration redirect, "" unless passed
	Retry       bool                // retry-only terminal screen
}

// Resolver computes the final result for a terminal session snapshot:
// status, percent score, and on a perfect score the reward ticket and the
// registration redirect.
type Resolver struct {
	registrationURL string
	claimPrefix     string
	now             func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewResolver(registrationURL, claimPrefix string) *Resolver {
	return NewResolverWithRand(registrationURL, claimPrefix, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewResolverWithRand is test-only for deterministic rewards and timestamps.
func NewResolverWithRand(registrationURL, claimPrefix string, rnd *rand.Rand, now func() time.Time) *Resolver {
	return &Resolver{
		registrationURL: registrationURL,
		claimPrefix:     claimPrefix,
		now:             now,
		rnd:             rnd,
	}
}

// Resolve maps a terminal snapshot onto an Outcome. Invalidated attempts
// report their partial tallies with status "invalidated" rather than being
// left dangling in the remote log.
func (r *Resolver) Resolve(snap session.Snapshot, attemptID, participant string) Outcome {
	finishedAt := r.now()

	result := domain.AttemptResult{
		AttemptID:     attemptID,
		Room:          snap.Room,
		Participant:   participant,
		StartedAt:     snap.StartedAt,
		FinishedAt:    finishedAt,
		QuestionCount: snap.Total,
		CorrectCount:  snap.Correct,
		ScorePercent:  scorePercent(snap.Correct, snap.Total),
		TotalPoints:   snap.Points,
	}

	switch snap.Phase {
	case domain.PhaseCompletedPass:
		result.Status = domain.AttemptPassed
		ticket := r.newTicket(snap.Room, finishedAt)
		return Outcome{
			Result:      result,
			Ticket:      &ticket,
			NavigateURL: r.registrationTarget(snap.Room),
		}
	case domain.PhaseInvalidated:
		result.Status = domain.AttemptInvalidated
	default:
		result.Status = domain.AttemptFailed
	}
	return Outcome{Result: result, Retry: true}
}

func (r *Resolver) newTicket(room string, date time.Time) domain.ClaimTicket {
	r.mu.Lock()
	reward := Catalog[r.rnd.Intn(len(Catalog))]
	code := newClaimCode(r.claimPrefix, r.rnd)
	r.mu.Unlock()

	return domain.ClaimTicket{
		Reward: reward,
		Code:   code,
		Date:   date,
		Room:   room,
	}
}

func (r *Resolver) registrationTarget(room string) string {
	query := url.Values{"sala": []string{room}}
	return r.registrationURL + "?" + query.Encode()
}

func scorePercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
