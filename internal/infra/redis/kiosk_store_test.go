package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"sala-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestGuardStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	store := NewGuardStore(client, time.Minute)

	if id, err := store.Current(ctx, "kiosk-1"); err != nil || id != "" {
		t.Fatalf("expected empty guard, got %q err=%v", id, err)
	}

	if err := store.Put(ctx, "kiosk-1", "attempt-1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if id, _ := store.Current(ctx, "kiosk-1"); id != "attempt-1" {
		t.Fatalf("expected attempt-1, got %q", id)
	}

	// Guard entries expire with the kiosk session.
	mr.FastForward(2 * time.Minute)
	if id, _ := store.Current(ctx, "kiosk-1"); id != "" {
		t.Fatalf("expected expired guard, got %q", id)
	}
}

func TestGuardStoreClear(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	store := NewGuardStore(client, time.Minute)

	_ = store.Put(ctx, "kiosk-1", "attempt-1")
	if err := store.Clear(ctx, "kiosk-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if id, _ := store.Current(ctx, "kiosk-1"); id != "" {
		t.Fatalf("expected cleared guard, got %q", id)
	}
}

func TestClaimStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	store := NewClaimStore(client, time.Hour)

	if _, err := store.GetTicket(ctx, "kiosk-1"); !errors.Is(err, domain.ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got %v", err)
	}

	ticket := domain.ClaimTicket{
		Reward: domain.Reward{Key: "museo", Title: "MUCH · Museo"},
		Code:   "MUCH-AB12CD",
		Room:   "energia",
	}
	if err := store.PutTicket(ctx, "kiosk-1", ticket); err != nil {
		t.Fatalf("put ticket: %v", err)
	}
	got, err := store.GetTicket(ctx, "kiosk-1")
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if got.Code != ticket.Code || got.Reward.Key != "museo" {
		t.Fatalf("ticket roundtrip mismatch: %+v", got)
	}

	result := domain.AttemptResult{CorrectCount: 6, QuestionCount: 6, Status: domain.AttemptPassed}
	if err := store.PutResult(ctx, "kiosk-1", result); err != nil {
		t.Fatalf("put result: %v", err)
	}
	gotResult, err := store.GetResult(ctx, "kiosk-1")
	if err != nil || gotResult.Status != domain.AttemptPassed {
		t.Fatalf("result roundtrip mismatch: %+v err=%v", gotResult, err)
	}
}
