package app

import (
	"context"
	"log"
	"sync"
	"time"

	"sala-quiz-service/internal/domain"
	"sala-quiz-service/internal/outcome"
	"sala-quiz-service/internal/session"
)

// QuestionBank deals a fresh QuestionSet for a room.
type QuestionBank interface {
	Draw(ctx context.Context, room string) (domain.QuestionSet, error)
}

// AttemptStore is the remote persistence collaborator. It is a passive,
// best-effort log: every call may fail without affecting the local outcome.
type AttemptStore interface {
	EnsureParticipant(ctx context.Context) (string, error)
	CreateAttempt(ctx context.Context, room, participant string, startedAt time.Time, questionCount int) (string, error)
	FinishAttempt(ctx context.Context, attemptID string, result domain.AttemptResult) error
}

// AttemptGuard is the ephemeral per-kiosk store holding the live attempt ID,
// so one kiosk session never creates a second remote attempt record.
type AttemptGuard interface {
	Current(ctx context.Context, kiosk string) (string, error)
	Put(ctx context.Context, kiosk, attemptID string) error
	Clear(ctx context.Context, kiosk string) error
}

// ClaimStore is the durable store the downstream registration page reads:
// the reward ticket, plus a result snapshot written on every terminal
// outcome regardless of remote persistence success.
type ClaimStore interface {
	PutTicket(ctx context.Context, kiosk string, ticket domain.ClaimTicket) error
	GetTicket(ctx context.Context, kiosk string) (domain.ClaimTicket, error)
	PutResult(ctx context.Context, kiosk string, result domain.AttemptResult) error
	GetResult(ctx context.Context, kiosk string) (domain.AttemptResult, error)
}

// KioskService wires question dealing, attempt logging, and outcome
// resolution for kiosk connections.
type KioskService struct {
	bank     QuestionBank
	attempts AttemptStore
	guard    AttemptGuard
	claims   ClaimStore
	resolver *outcome.Resolver
}

func NewKioskService(bank QuestionBank, attempts AttemptStore, guard AttemptGuard, claims ClaimStore, resolver *outcome.Resolver) *KioskService {
	return &KioskService{
		bank:     bank,
		attempts: attempts,
		guard:    guard,
		claims:   claims,
		resolver: resolver,
	}
}

// Claim returns the stored ticket and result snapshot for a kiosk.
func (s *KioskService) Claim(ctx context.Context, kiosk string) (domain.ClaimTicket, domain.AttemptResult, error) {
	ticket, err := s.claims.GetTicket(ctx, kiosk)
	if err != nil {
		return domain.ClaimTicket{}, domain.AttemptResult{}, err
	}
	result, err := s.claims.GetResult(ctx, kiosk)
	if err != nil {
		// The ticket alone is enough for the registration page.
		return ticket, domain.AttemptResult{}, nil
	}
	return ticket, result, nil
}

// Start deals a fresh attempt for a kiosk. Question loading is the one
// operation that must succeed before a session exists; attempt logging and
// participant resolution degrade to local-only when the remote store fails.
func (s *KioskService) Start(ctx context.Context, room, kiosk string) (*Attempt, error) {
	questions, err := s.bank.Draw(ctx, room)
	if err != nil {
		return nil, err
	}

	participant, err := s.attempts.EnsureParticipant(ctx)
	if err != nil {
		log.Printf("participant resolution failed, continuing anonymous: %v", err)
		participant = ""
	}

	sess := session.New(room, questions)

	attemptID, err := s.guard.Current(ctx, kiosk)
	if err != nil {
		log.Printf("attempt guard read failed for kiosk %s: %v", kiosk, err)
		attemptID = ""
	}
	if attemptID == "" {
		attemptID, err = s.attempts.CreateAttempt(ctx, room, participant, sess.Snapshot().StartedAt, len(questions))
		if err != nil {
			log.Printf("create attempt failed, continuing local-only: %v", err)
			attemptID = ""
		} else if err := s.guard.Put(ctx, kiosk, attemptID); err != nil {
			log.Printf("attempt guard write failed for kiosk %s: %v", kiosk, err)
		}
	}

	return &Attempt{
		svc:         s,
		kiosk:       kiosk,
		id:          attemptID,
		participant: participant,
		session:     sess,
	}, nil
}

// Attempt is one playthrough from start to terminal outcome. It owns the
// session and runs finalization exactly once when a terminal phase is
// reached.
type Attempt struct {
	svc         *KioskService
	kiosk       string
	id          string
	participant string
	session     *session.Session

	finalizeOnce sync.Once
	mu           sync.Mutex
	outcome      *outcome.Outcome
}

// Session exposes the underlying state machine (read-only snapshots).
func (a *Attempt) Session() *session.Session { return a.session }

// Snapshot returns the current session state.
func (a *Attempt) Snapshot() session.Snapshot { return a.session.Snapshot() }

// Outcome returns the resolved outcome, nil until the attempt is terminal.
func (a *Attempt) Outcome() *outcome.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

// Dispatch forwards an event to the session. The first event that lands the
// session in a terminal phase triggers finalization: outcome resolution, the
// durable result snapshot, and fire-and-forget remote logging. On a pass the
// navigate intent is appended to the returned effects.
func (a *Attempt) Dispatch(ev session.Event) (session.Snapshot, []session.Effect, error) {
	snap, effects, err := a.session.Dispatch(ev)
	if err != nil {
		return snap, effects, err
	}

	if snap.Phase.Terminal() {
		a.finalizeOnce.Do(func() { a.finalize(snap) })
		if out := a.Outcome(); out != nil && out.NavigateURL != "" {
			effects = append(effects, session.Effect{Kind: session.EffectNavigate, URL: out.NavigateURL})
		}
	}
	return snap, effects, nil
}

// finalize computes the outcome and emits it to the collaborators. The
// user-visible flow depends only on local state: durable writes are logged
// on failure, and the remote finish runs detached from any request context
// so a dropped connection cannot cancel it.
func (a *Attempt) finalize(snap session.Snapshot) {
	out := a.svc.resolver.Resolve(snap, a.id, a.participant)

	a.mu.Lock()
	a.outcome = &out
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.svc.claims.PutResult(ctx, a.kiosk, out.Result); err != nil {
		log.Printf("store result snapshot for kiosk %s: %v", a.kiosk, err)
	}
	if out.Ticket != nil {
		if err := a.svc.claims.PutTicket(ctx, a.kiosk, *out.Ticket); err != nil {
			log.Printf("store claim ticket for kiosk %s: %v", a.kiosk, err)
		}
	}
	if err := a.svc.guard.Clear(ctx, a.kiosk); err != nil {
		log.Printf("clear attempt guard for kiosk %s: %v", a.kiosk, err)
	}

	if a.id == "" {
		return
	}
	go func(id string, result domain.AttemptResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.svc.attempts.FinishAttempt(ctx, id, result); err != nil {
			log.Printf("finish attempt %s: %v", id, err)
		}
	}(a.id, out.Result)
}
