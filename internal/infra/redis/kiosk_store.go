package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sala-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GuardStore keeps the live attempt ID per kiosk in Redis with a TTL, the
// server-side analogue of the kiosk's session storage: one browser session,
// at most one remote attempt record.
type GuardStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuardStore(client *redis.Client, ttl time.Duration) *GuardStore {
	return &GuardStore{client: client, ttl: ttl}
}

func (s *GuardStore) Current(ctx context.Context, kiosk string) (string, error) {
	attemptID, err := s.client.Get(ctx, guardKey(kiosk)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read attempt guard: %w", err)
	}
	return attemptID, nil
}

func (s *GuardStore) Put(ctx context.Context, kiosk, attemptID string) error {
	if err := s.client.Set(ctx, guardKey(kiosk), attemptID, s.ttl).Err(); err != nil {
		return fmt.Errorf("write attempt guard: %w", err)
	}
	return nil
}

func (s *GuardStore) Clear(ctx context.Context, kiosk string) error {
	if err := s.client.Del(ctx, guardKey(kiosk)).Err(); err != nil {
		return fmt.Errorf("clear attempt guard: %w", err)
	}
	return nil
}

func guardKey(kiosk string) string {
	return "kiosk:" + kiosk + ":attempt"
}

// ClaimStore persists the reward ticket and the result snapshot for the
// downstream registration page. Entries carry a long TTL rather than none so
// abandoned kiosks don't accumulate claims forever.
type ClaimStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClaimStore(client *redis.Client, ttl time.Duration) *ClaimStore {
	return &ClaimStore{client: client, ttl: ttl}
}

func (s *ClaimStore) PutTicket(ctx context.Context, kiosk string, ticket domain.ClaimTicket) error {
	return s.put(ctx, ticketKey(kiosk), ticket)
}

func (s *ClaimStore) GetTicket(ctx context.Context, kiosk string) (domain.ClaimTicket, error) {
	var ticket domain.ClaimTicket
	err := s.get(ctx, ticketKey(kiosk), &ticket)
	return ticket, err
}

func (s *ClaimStore) PutResult(ctx context.Context, kiosk string, result domain.AttemptResult) error {
	return s.put(ctx, resultKey(kiosk), result)
}

func (s *ClaimStore) GetResult(ctx context.Context, kiosk string) (domain.AttemptResult, error) {
	var result domain.AttemptResult
	err := s.get(ctx, resultKey(kiosk), &result)
	return result, err
}

func (s *ClaimStore) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode claim: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("write claim: %w", err)
	}
	return nil
}

func (s *ClaimStore) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrClaimNotFound
	}
	if err != nil {
		return fmt.Errorf("read claim: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode claim: %w", err)
	}
	return nil
}

func ticketKey(kiosk string) string {
	return "kiosk:" + kiosk + ":claim"
}

func resultKey(kiosk string) string {
	return "kiosk:" + kiosk + ":result"
}
