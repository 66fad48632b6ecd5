package questionbank

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"sala-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Bank caches the normalized pool per room with TTL to avoid refetching the
// source on every attempt, and deals a fresh random QuestionSet per draw.
type Bank struct {
	loader *Loader
	length int
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.Mutex
	rnd   *rand.Rand
	cache map[string]cachedPool
}

type cachedPool struct {
	pool      []domain.Question
	expiresAt time.Time
}

func NewBank(loader *Loader, length int, ttl time.Duration) *Bank {
	return &Bank{
		loader: loader,
		length: length,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

// NewBankWithRand is test-only for deterministic draws.
func NewBankWithRand(loader *Loader, length int, ttl time.Duration, rnd *rand.Rand) *Bank {
	b := NewBank(loader, length, ttl)
	b.rnd = rnd
	return b
}

// Draw deals a QuestionSet for room: an unbiased shuffle of the cached pool
// truncated to min(length, len(pool)). When the source fails, the built-in
// fallback bank substitutes for exactly the designated fallback room; every
// other room propagates the load error.
func (b *Bank) Draw(ctx context.Context, room string) (domain.QuestionSet, error) {
	pool, err := b.pool(ctx, room)
	if err != nil {
		if room != FallbackRoom {
			return nil, err
		}
		log.Printf("question source failed for %q, using built-in bank: %v", room, err)
		pool = fallbackPool()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	drawn := append([]domain.Question(nil), pool...)
	b.rnd.Shuffle(len(drawn), func(i, j int) { drawn[i], drawn[j] = drawn[j], drawn[i] })
	if len(drawn) > b.length {
		drawn = drawn[:b.length]
	}
	return domain.QuestionSet(drawn), nil
}

func (b *Bank) pool(ctx context.Context, room string) ([]domain.Question, error) {
	now := b.clock()

	b.mu.Lock()
	if entry, ok := b.cache[room]; ok && entry.expiresAt.After(now) {
		b.mu.Unlock()
		return entry.pool, nil
	}
	b.mu.Unlock()

	result, err, _ := b.sf.Do(room, func() (interface{}, error) {
		now := b.clock()
		b.mu.Lock()
		if entry, ok := b.cache[room]; ok && entry.expiresAt.After(now) {
			b.mu.Unlock()
			return entry.pool, nil
		}
		b.mu.Unlock()

		pool, err := b.loader.LoadPool(ctx, room)
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.cache[room] = cachedPool{pool: pool, expiresAt: now.Add(b.ttlWithJitter())}
		b.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *Bank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
