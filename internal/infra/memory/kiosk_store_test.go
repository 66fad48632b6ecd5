package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sala-quiz-service/internal/domain"
)

func TestGuardStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewGuardStore(time.Minute)

	if id, _ := store.Current(ctx, "kiosk-1"); id != "" {
		t.Fatalf("expected empty guard, got %q", id)
	}
	if err := store.Put(ctx, "kiosk-1", "attempt-1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if id, _ := store.Current(ctx, "kiosk-1"); id != "attempt-1" {
		t.Fatalf("expected attempt-1, got %q", id)
	}
	if err := store.Clear(ctx, "kiosk-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if id, _ := store.Current(ctx, "kiosk-1"); id != "" {
		t.Fatalf("expected cleared guard, got %q", id)
	}
}

func TestGuardStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	store := NewGuardStoreWithClock(time.Minute, func() time.Time { return now })

	_ = store.Put(ctx, "kiosk-1", "attempt-1")
	now = now.Add(2 * time.Minute)
	if id, _ := store.Current(ctx, "kiosk-1"); id != "" {
		t.Fatalf("expected expired guard, got %q", id)
	}
}

func TestClaimStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewClaimStore()

	if _, err := store.GetTicket(ctx, "kiosk-1"); !errors.Is(err, domain.ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got %v", err)
	}

	ticket := domain.ClaimTicket{Code: "MUCH-AB12CD", Room: "energia"}
	if err := store.PutTicket(ctx, "kiosk-1", ticket); err != nil {
		t.Fatalf("put ticket: %v", err)
	}
	got, err := store.GetTicket(ctx, "kiosk-1")
	if err != nil || got.Code != ticket.Code {
		t.Fatalf("ticket roundtrip failed: %+v err=%v", got, err)
	}

	result := domain.AttemptResult{CorrectCount: 6, QuestionCount: 6, Status: domain.AttemptPassed}
	if err := store.PutResult(ctx, "kiosk-1", result); err != nil {
		t.Fatalf("put result: %v", err)
	}
	gotResult, err := store.GetResult(ctx, "kiosk-1")
	if err != nil || gotResult.CorrectCount != 6 {
		t.Fatalf("result roundtrip failed: %+v err=%v", gotResult, err)
	}
}

func TestAttemptLogFinish(t *testing.T) {
	ctx := context.Background()
	log := NewAttemptLog()

	participant, err := log.EnsureParticipant(ctx)
	if err != nil || participant == "" {
		t.Fatalf("ensure participant: %q err=%v", participant, err)
	}

	id, err := log.CreateAttempt(ctx, "energia", participant, time.Now(), 6)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if log.Finished(id) != nil {
		t.Fatalf("fresh attempt must be unfinished")
	}

	if err := log.FinishAttempt(ctx, id, domain.AttemptResult{Status: domain.AttemptPassed}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result := log.Finished(id); result == nil || result.Status != domain.AttemptPassed {
		t.Fatalf("unexpected result: %+v", result)
	}

	if err := log.FinishAttempt(ctx, "missing", domain.AttemptResult{}); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}
