package questionbank

import (
	"context"
	"errors"
	"testing"

	"sala-quiz-service/internal/domain"
)

func TestLoadPoolFromFlatArray(t *testing.T) {
	doc := `[
		{"text": "q1", "options": ["a", "b"], "correctIndex": 1},
		{"text": "q2", "options": ["a", "b"], "correctIndex": 0}
	]`
	loader := NewLoader(NewStaticSource([]byte(doc)))

	pool, err := loader.LoadPool(context.Background(), "energia")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(pool))
	}
}

func TestLoadPoolSelectsRoomEntry(t *testing.T) {
	doc := `{
		"historia": [{"text": "h1", "options": ["a"]}],
		"energia": [
			{"text": "e1", "options": ["a", "b"]},
			{"text": "e2", "options": ["a", "b"]}
		]
	}`
	loader := NewLoader(NewStaticSource([]byte(doc)))

	pool, err := loader.LoadPool(context.Background(), "energia")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 2 || pool[0].Text != "e1" {
		t.Fatalf("expected energia entry, got %+v", pool)
	}
}

func TestLoadPoolFallsBackToFirstArrayEntry(t *testing.T) {
	doc := `{
		"meta": "not a pool",
		"historia": [{"text": "h1", "options": ["a"]}]
	}`
	loader := NewLoader(NewStaticSource([]byte(doc)))

	pool, err := loader.LoadPool(context.Background(), "energia")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 1 || pool[0].Text != "h1" {
		t.Fatalf("expected historia fallback entry, got %+v", pool)
	}
}

func TestLoadPoolRoomTagFilter(t *testing.T) {
	doc := `[
		{"text": "mine", "options": ["a"], "sala": "energia"},
		{"text": "other", "options": ["a"], "sala": "historia"},
		{"text": "untagged", "options": ["a"]}
	]`
	loader := NewLoader(NewStaticSource([]byte(doc)))

	pool, err := loader.LoadPool(context.Background(), "energia")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected matching + untagged questions, got %d", len(pool))
	}
	for _, q := range pool {
		if q.Text == "other" {
			t.Fatalf("question tagged for another room must be filtered out")
		}
	}
}

func TestLoadPoolEmptyDocument(t *testing.T) {
	loader := NewLoader(NewStaticSource([]byte(`[]`)))

	_, err := loader.LoadPool(context.Background(), "energia")
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
