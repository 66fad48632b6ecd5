package session

import (
	"errors"
	"testing"
	"time"

	"sala-quiz-service/internal/domain"
)

func twoOptionQuestions(n int) domain.QuestionSet {
	set := make(domain.QuestionSet, n)
	for i := range set {
		set[i] = domain.Question{
			Text:         "q",
			Options:      []string{"wrong", "right"},
			CorrectIndex: 1,
			Points:       10,
		}
	}
	return set
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func answerAndAdvance(t *testing.T, s *Session, option int) Snapshot {
	t.Helper()
	if _, _, err := s.Dispatch(AnswerChosen{Option: option}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	snap, _, err := s.Dispatch(AdvanceRequested{})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	return snap
}

func TestCorrectAnswerScores(t *testing.T) {
	s := NewWithClock("energia", twoOptionQuestions(2), fixedClock())

	snap, effects, err := s.Dispatch(AnswerChosen{Option: 1})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if snap.Correct != 1 || snap.Points != 10 {
		t.Fatalf("expected 1 correct / 10 points, got %d / %d", snap.Correct, snap.Points)
	}
	if !snap.Locked {
		t.Fatalf("question must lock after an answer")
	}
	if len(snap.Answers) != 1 || !snap.Answers[0].Correct || snap.Answers[0].Chosen != "right" {
		t.Fatalf("unexpected answer log: %+v", snap.Answers)
	}
	if len(effects) == 0 || effects[0].Kind != EffectSoundCorrect {
		t.Fatalf("expected correct-feedback effect, got %+v", effects)
	}
}

func TestDoubleAnswerIgnored(t *testing.T) {
	s := New("energia", twoOptionQuestions(2))

	if _, _, err := s.Dispatch(AnswerChosen{Option: 0}); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	snap, _, err := s.Dispatch(AnswerChosen{Option: 1})
	if !errors.Is(err, domain.ErrSessionLocked) {
		t.Fatalf("expected ErrSessionLocked, got %v", err)
	}
	if len(snap.Answers) != 1 {
		t.Fatalf("answer log must have exactly one entry, got %d", len(snap.Answers))
	}
	if snap.Correct != 0 || snap.Points != 0 {
		t.Fatalf("second answer must not score: %+v", snap)
	}
}

func TestAdvanceWithoutSelection(t *testing.T) {
	s := New("energia", twoOptionQuestions(2))

	snap, _, err := s.Dispatch(AdvanceRequested{})
	if !errors.Is(err, domain.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if snap.Index != 0 {
		t.Fatalf("index must not move without a selection, got %d", snap.Index)
	}
}

func TestAdvanceResetsLockForNextQuestion(t *testing.T) {
	s := New("energia", twoOptionQuestions(2))

	snap := answerAndAdvance(t, s, 1)
	if snap.Index != 1 || snap.Locked || snap.Selected != -1 {
		t.Fatalf("expected unlocked question 1 with no selection, got %+v", snap)
	}
}

func TestPerfectScoreCompletesPass(t *testing.T) {
	s := New("energia", twoOptionQuestions(6))

	var snap Snapshot
	for i := 0; i < 6; i++ {
		snap = answerAndAdvance(t, s, 1)
	}
	if snap.Phase != domain.PhaseCompletedPass {
		t.Fatalf("expected pass, got %s", snap.Phase)
	}
	if snap.Correct != 6 || snap.Points != 60 {
		t.Fatalf("expected 6 correct / 60 points, got %d / %d", snap.Correct, snap.Points)
	}
}

func TestOneMissCompletesFail(t *testing.T) {
	s := New("energia", twoOptionQuestions(6))

	answerAndAdvance(t, s, 0)
	var snap Snapshot
	for i := 0; i < 5; i++ {
		snap = answerAndAdvance(t, s, 1)
	}
	if snap.Phase != domain.PhaseCompletedFail {
		t.Fatalf("expected fail, got %s", snap.Phase)
	}
	if snap.Correct != 5 {
		t.Fatalf("expected 5 correct, got %d", snap.Correct)
	}
}

func TestFocusLossInvalidates(t *testing.T) {
	s := New("energia", twoOptionQuestions(6))

	// Two questions answered, third in play and not yet locked.
	answerAndAdvance(t, s, 1)
	answerAndAdvance(t, s, 1)

	snap, effects, err := s.Dispatch(FocusLost{})
	if err != nil {
		t.Fatalf("focus lost: %v", err)
	}
	if snap.Phase != domain.PhaseInvalidated || !snap.Invalidated {
		t.Fatalf("expected invalidated phase, got %+v", snap)
	}
	if len(snap.Answers) != 2 {
		t.Fatalf("expected answer log of 2, got %d", len(snap.Answers))
	}
	if len(effects) != 2 {
		t.Fatalf("expected violation feedback effects, got %+v", effects)
	}
}

func TestFocusLossMootWhileLocked(t *testing.T) {
	s := New("energia", twoOptionQuestions(2))

	if _, _, err := s.Dispatch(AnswerChosen{Option: 1}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	snap, effects, err := s.Dispatch(FocusLost{})
	if err != nil || len(effects) != 0 {
		t.Fatalf("locked question makes the violation moot, got effects=%v err=%v", effects, err)
	}
	if snap.Invalidated {
		t.Fatalf("session must not invalidate while locked mid-question")
	}
}

func TestInvalidationIsPermanent(t *testing.T) {
	s := New("energia", twoOptionQuestions(6))
	answerAndAdvance(t, s, 1)

	if _, _, err := s.Dispatch(FocusLost{}); err != nil {
		t.Fatalf("focus lost: %v", err)
	}

	// Repeated signals stay silent.
	snap, effects, err := s.Dispatch(FocusLost{})
	if err != nil || len(effects) != 0 {
		t.Fatalf("repeat signal must be a no-op, got effects=%v err=%v", effects, err)
	}

	if _, _, err := s.Dispatch(AnswerChosen{Option: 1}); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished on answer, got %v", err)
	}
	if _, _, err := s.Dispatch(AdvanceRequested{}); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished on advance, got %v", err)
	}

	final := s.Snapshot()
	if final.Correct != snap.Correct || final.Points != snap.Points || final.Index != snap.Index {
		t.Fatalf("state mutated after invalidation: %+v vs %+v", final, snap)
	}
}

func TestAnswerOutOfRange(t *testing.T) {
	s := New("energia", twoOptionQuestions(1))

	_, _, err := s.Dispatch(AnswerChosen{Option: 7})
	if !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
	if snap := s.Snapshot(); snap.Locked || len(snap.Answers) != 0 {
		t.Fatalf("out-of-range answer must not mutate state: %+v", snap)
	}
}
