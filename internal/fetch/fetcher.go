// Package fetch defines the Fetcher capability the ingestion pipeline
// consumes, a registry keyed by source name, and the cooperative throttle
// that honors per-source rate limits.
package fetch

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// RawItem is one document as fetched from an external source, before any
// normalization or classification.
type RawItem struct {
	SourceItemID     string `json:"source_item_id"`
	TitleRaw         string `json:"title_raw"`
	SummaryRaw       string `json:"summary_raw"`
	TextRaw          string `json:"text_raw"`
	EffectiveDateRaw string `json:"effective_date_raw"`
}

// Fetcher produces the current sequence of raw items for one source. Fetch
// may fail or rate-limit; the pipeline treats any error as a fetch failure
// for the whole run.
type Fetcher interface {
	Source() string
	Fetch(ctx context.Context) ([]RawItem, error)
}

// Registry resolves fetchers by source name. Registration happens at wiring
// time; lookups afterward are concurrency-safe.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

// Register binds f to its source name, replacing any previous binding.
func (r *Registry) Register(f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[f.Source()] = f
}

// Get returns the fetcher bound to source.
func (r *Registry) Get(source string) (Fetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fetchers[source]
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for source %q", source)
	}
	return f, nil
}

// Sources lists the registered source names, sorted.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]string, 0, len(r.fetchers))
	for s := range r.fetchers {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// Static is a fixture-backed fetcher used in tests and for seeding.
type Static struct {
	Name  string
	Items []RawItem
	Err   error
}

func (s *Static) Source() string { return s.Name }

func (s *Static) Fetch(ctx context.Context) ([]RawItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	items := make([]RawItem, len(s.Items))
	copy(items, s.Items)
	return items, nil
}
