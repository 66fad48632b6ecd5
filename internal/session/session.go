package session

import (
	"fmt"
	"sync"
	"time"

	"sala-quiz-service/internal/domain"
)

// Event is a discrete input delivered to Dispatch. Exactly one event mutates
// the session at a time; the mutex makes an in-flight answer and a racing
// focus-loss signal serialize, with the lock/invalidated gates turning
// whichever lands second into a no-op.
type Event interface{ isEvent() }

// AnswerChosen selects an option for the current question.
type AnswerChosen struct {
	Option int
}

// AdvanceRequested moves to the next question (or the terminal outcome).
type AdvanceRequested struct{}

// FocusLost is the anti-cheat signal: the kiosk window lost focus.
type FocusLost struct{}

func (AnswerChosen) isEvent()     {}
func (AdvanceRequested) isEvent() {}
func (FocusLost) isEvent()        {}

// EffectKind identifies a side-effect intent for the presentation shell. The
// session never plays sounds or navigates itself; it only asks.
type EffectKind string

const (
	EffectSoundCorrect EffectKind = "sound_correct"
	EffectSoundWrong   EffectKind = "sound_wrong"
	EffectConfetti     EffectKind = "confetti"
	EffectMessage      EffectKind = "message"
	EffectNavigate     EffectKind = "navigate"
)

// Effect is one side-effect intent.
type Effect struct {
	Kind EffectKind `json:"kind"`
	Text string     `json:"text,omitempty"`
	URL  string     `json:"url,omitempty"`
}

const invalidatedMessage = "Se detectó un cambio de ventana. La ronda ha sido invalidada."

// Session is the authoritative state of one quiz attempt.
type Session struct {
	mu        sync.Mutex
	room      string
	questions domain.QuestionSet
	now       func() time.Time
	startedAt time.Time

	phase       domain.Phase
	idx         int
	selected    int // -1 = none
	points      int
	correct     int
	locked      bool
	invalidated bool
	answers     []domain.AnswerRecord
}

// Snapshot is an immutable view of session state after an event.
type Snapshot struct {
	Room        string
	Phase       domain.Phase
	Index       int
	Total       int
	Points      int
	Correct     int
	Selected    int
	Locked      bool
	Invalidated bool
	StartedAt   time.Time
	Question    *domain.Question // current question, nil once terminal
	Answers     []domain.AnswerRecord
}

func New(room string, questions domain.QuestionSet) *Session {
	return NewWithClock(room, questions, time.Now)
}

// NewWithClock allows deterministic timestamps in tests.
func NewWithClock(room string, questions domain.QuestionSet, now func() time.Time) *Session {
	return &Session{
		room:      room,
		questions: questions,
		now:       now,
		startedAt: now(),
		phase:     domain.PhaseInProgress,
		selected:  -1,
	}
}

// Dispatch applies one event and returns the resulting snapshot plus the
// side-effect intents the shell should execute.
func (s *Session) Dispatch(ev Event) (Snapshot, []Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case AnswerChosen:
		return s.selectAnswerLocked(e.Option)
	case AdvanceRequested:
		return s.advanceLocked()
	case FocusLost:
		return s.invalidateLocked()
	default:
		return s.snapshotLocked(), nil, fmt.Errorf("unknown event %T", ev)
	}
}

// Snapshot returns the current state without mutating it.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) selectAnswerLocked(option int) (Snapshot, []Effect, error) {
	if s.phase.Terminal() {
		return s.snapshotLocked(), nil, domain.ErrSessionFinished
	}
	if s.locked {
		// Double-submit: ignored so a question can never score twice.
		return s.snapshotLocked(), nil, domain.ErrSessionLocked
	}
	question := s.questions[s.idx]
	if option < 0 || option >= len(question.Options) {
		return s.snapshotLocked(), nil, domain.ErrOptionNotFound
	}

	s.selected = option
	s.locked = true

	correct := option == question.CorrectIndex
	s.answers = append(s.answers, domain.AnswerRecord{
		QuestionIndex: s.idx,
		QuestionText:  question.Text,
		Chosen:        question.Options[option],
		Correct:       correct,
	})

	var effects []Effect
	if correct {
		points := question.Points
		if points == 0 {
			points = domain.DefaultPoints
		}
		s.points += points
		s.correct++
		effects = []Effect{{Kind: EffectSoundCorrect}, {Kind: EffectConfetti}}
	} else {
		effects = []Effect{{Kind: EffectSoundWrong}}
	}
	return s.snapshotLocked(), effects, nil
}

func (s *Session) advanceLocked() (Snapshot, []Effect, error) {
	if s.phase.Terminal() {
		return s.snapshotLocked(), nil, domain.ErrSessionFinished
	}
	if s.selected < 0 {
		return s.snapshotLocked(), nil, domain.ErrNoSelection
	}

	s.idx++
	s.selected = -1
	s.locked = false

	if s.idx >= len(s.questions) {
		s.locked = true
		if s.correct == len(s.questions) {
			s.phase = domain.PhaseCompletedPass
		} else {
			s.phase = domain.PhaseCompletedFail
		}
	}
	return s.snapshotLocked(), nil, nil
}

// invalidateLocked applies the anti-cheat violation. Idempotent: once the
// session is terminal, locked mid-question (the violation is moot, an answer
// is already in), or already invalidated, the signal is a no-op.
func (s *Session) invalidateLocked() (Snapshot, []Effect, error) {
	if s.phase.Terminal() || s.invalidated || s.locked {
		return s.snapshotLocked(), nil, nil
	}

	s.invalidated = true
	s.locked = true
	s.phase = domain.PhaseInvalidated

	effects := []Effect{
		{Kind: EffectSoundWrong},
		{Kind: EffectMessage, Text: invalidatedMessage},
	}
	return s.snapshotLocked(), effects, nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Room:        s.room,
		Phase:       s.phase,
		Index:       s.idx,
		Total:       len(s.questions),
		Points:      s.points,
		Correct:     s.correct,
		Selected:    s.selected,
		Locked:      s.locked,
		Invalidated: s.invalidated,
		StartedAt:   s.startedAt,
		Answers:     append([]domain.AnswerRecord(nil), s.answers...),
	}
	if !s.phase.Terminal() && s.idx < len(s.questions) {
		question := s.questions[s.idx]
		snap.Question = &question
	}
	return snap
}
