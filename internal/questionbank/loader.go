package questionbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"sala-quiz-service/internal/domain"
)

// Source fetches the raw question document (array of questions, or an object
// keyed by room slug).
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the document over HTTP, bypassing intermediary caches so
// kiosks pick up edits without a redeploy.
type HTTPSource struct {
	client *http.Client
	url    string
}

func NewHTTPSource(client *http.Client, url string) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client, url: url}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build questions request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FileSource reads the document from disk (seed-file deployments).
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return data, nil
}

// StaticSource serves a fixed document (tests/demos).
type StaticSource struct {
	data []byte
}

func NewStaticSource(data []byte) *StaticSource {
	return &StaticSource{data: data}
}

func (s *StaticSource) Fetch(_ context.Context) ([]byte, error) {
	return s.data, nil
}

// Loader turns a raw source document into a normalized question pool for one
// room: resolve the room's entry, normalize every item, apply the optional
// per-question room-tag filter.
type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// LoadPool returns the filtered, normalized pool for room. The pool is not
// shuffled or truncated; drawing is the Bank's job so each attempt gets a
// fresh draw from the same cached pool.
func (l *Loader) LoadPool(ctx context.Context, room string) ([]domain.Question, error) {
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode questions document: %w", err)
	}

	rawPool, err := resolvePool(doc, room)
	if err != nil {
		return nil, err
	}

	pool := make([]domain.Question, 0, len(rawPool))
	tagged := make([]domain.Question, 0, len(rawPool))
	for _, item := range rawPool {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q, tag := Normalize(Raw(raw))
		pool = append(pool, q)
		// Untagged items pass the filter; tagged items must match the room.
		if tag == "" || tag == room {
			tagged = append(tagged, q)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("room %q: %w", room, domain.ErrNoQuestions)
	}
	if len(tagged) > 0 {
		return tagged, nil
	}
	return pool, nil
}

// resolvePool selects the raw question array for room. A flat array is the
// pool as-is; an object is keyed by room slug, falling back to the first
// (alphabetically, for determinism) entry holding an array.
func resolvePool(doc any, room string) ([]any, error) {
	switch d := doc.(type) {
	case []any:
		return d, nil
	case map[string]any:
		if pool, ok := d[room].([]any); ok {
			return pool, nil
		}
		keys := make([]string, 0, len(d))
		for key := range d {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if pool, ok := d[key].([]any); ok {
				return pool, nil
			}
		}
	}
	return nil, fmt.Errorf("room %q: %w", room, domain.ErrNoQuestions)
}
