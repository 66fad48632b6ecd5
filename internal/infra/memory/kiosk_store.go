package memory

import (
	"context"
	"sync"
	"time"

	"sala-quiz-service/internal/domain"
)

// GuardStore is an in-memory implementation of app.AttemptGuard, used when
// no Redis is configured (single-instance kiosks).
type GuardStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.Mutex
	entries map[string]guardEntry
}

type guardEntry struct {
	attemptID string
	expiresAt time.Time
}

func NewGuardStore(ttl time.Duration) *GuardStore {
	return &GuardStore{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]guardEntry),
	}
}

// NewGuardStoreWithClock is test-only for deterministic expiry.
func NewGuardStoreWithClock(ttl time.Duration, clock func() time.Time) *GuardStore {
	s := NewGuardStore(ttl)
	s.clock = clock
	return s
}

func (s *GuardStore) Current(_ context.Context, kiosk string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[kiosk]
	if !ok || !entry.expiresAt.After(s.clock()) {
		delete(s.entries, kiosk)
		return "", nil
	}
	return entry.attemptID, nil
}

func (s *GuardStore) Put(_ context.Context, kiosk, attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[kiosk] = guardEntry{attemptID: attemptID, expiresAt: s.clock().Add(s.ttl)}
	return nil
}

func (s *GuardStore) Clear(_ context.Context, kiosk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, kiosk)
	return nil
}

// ClaimStore is an in-memory implementation of app.ClaimStore.
type ClaimStore struct {
	mu      sync.Mutex
	tickets map[string]domain.ClaimTicket
	results map[string]domain.AttemptResult
}

func NewClaimStore() *ClaimStore {
	return &ClaimStore{
		tickets: make(map[string]domain.ClaimTicket),
		results: make(map[string]domain.AttemptResult),
	}
}

func (s *ClaimStore) PutTicket(_ context.Context, kiosk string, ticket domain.ClaimTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[kiosk] = ticket
	return nil
}

func (s *ClaimStore) GetTicket(_ context.Context, kiosk string) (domain.ClaimTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[kiosk]
	if !ok {
		return domain.ClaimTicket{}, domain.ErrClaimNotFound
	}
	return ticket, nil
}

func (s *ClaimStore) PutResult(_ context.Context, kiosk string, result domain.AttemptResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[kiosk] = result
	return nil
}

func (s *ClaimStore) GetResult(_ context.Context, kiosk string) (domain.AttemptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[kiosk]
	if !ok {
		return domain.AttemptResult{}, domain.ErrClaimNotFound
	}
	return result, nil
}
