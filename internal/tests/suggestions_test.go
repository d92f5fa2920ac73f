package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"chaloride/internal/domain"
	"chaloride/internal/logger"
	"chaloride/internal/service"
)

// ──────────────────────────────────────────────
// 9. SUGGESTION PREFETCH
// ──────────────────────────────────────────────

// memorySuggestionCache is an in-memory stand-in for the Redis cache.
type memorySuggestionCache struct {
	mu    sync.Mutex
	store map[string][]domain.Suggestion

	GetCallCount int32
	SetCallCount int32
}

func newMemorySuggestionCache() *memorySuggestionCache {
	return &memorySuggestionCache{store: make(map[string][]domain.Suggestion)}
}

func (c *memorySuggestionCache) Get(ctx context.Context, key string) ([]domain.Suggestion, error) {
	atomic.AddInt32(&c.GetCallCount, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key], nil
}

func (c *memorySuggestionCache) Set(ctx context.Context, key string, suggestions []domain.Suggestion) error {
	atomic.AddInt32(&c.SetCallCount, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = suggestions
	return nil
}

func TestSuggestions_RefreshOnlyWhileIdle(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	svc := service.NewSuggestionService(gen, nil, logger.Nop())

	got := svc.Refresh(context.Background(), domain.RideStatusIdle, "rider", nil)
	if len(got) == 0 {
		t.Fatal("expected suggestions while IDLE")
	}
	if svc.Current() == nil {
		t.Error("expected the fetched set retained")
	}

	// Any non-idle status clears the set without calling the backend.
	before := atomic.LoadInt32(&gen.SuggestCallCount)
	got = svc.Refresh(context.Background(), domain.RideStatusConfirmed, "rider", nil)
	if got != nil {
		t.Errorf("expected nil outside IDLE, got %v", got)
	}
	if svc.Current() != nil {
		t.Error("expected the current set cleared outside IDLE")
	}
	if after := atomic.LoadInt32(&gen.SuggestCallCount); after != before {
		t.Errorf("expected no backend call outside IDLE, got %d more", after-before)
	}
}

func TestSuggestions_CacheReadThrough(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	cache := newMemorySuggestionCache()
	svc := service.NewSuggestionService(gen, cache, logger.Nop())

	history := []*domain.CompletedRide{{ID: "r1", Destination: "MG Road"}}

	// First refresh misses the cache and hits the backend.
	first := svc.Refresh(context.Background(), domain.RideStatusIdle, "rider", history)
	if len(first) == 0 {
		t.Fatal("expected suggestions")
	}
	if got := atomic.LoadInt32(&gen.SuggestCallCount); got != 1 {
		t.Fatalf("expected 1 backend call, got %d", got)
	}
	if got := atomic.LoadInt32(&cache.SetCallCount); got != 1 {
		t.Errorf("expected the result cached, got %d writes", got)
	}

	// Same inputs are served from the cache.
	second := svc.Refresh(context.Background(), domain.RideStatusIdle, "rider", history)
	if len(second) != len(first) {
		t.Errorf("expected the cached set, got %d suggestions", len(second))
	}
	if got := atomic.LoadInt32(&gen.SuggestCallCount); got != 1 {
		t.Errorf("expected no second backend call, got %d", got)
	}

	// A new ride in the history changes the fingerprint.
	history = append(history, &domain.CompletedRide{ID: "r2", Destination: "Airport"})
	svc.Refresh(context.Background(), domain.RideStatusIdle, "rider", history)
	if got := atomic.LoadInt32(&gen.SuggestCallCount); got != 2 {
		t.Errorf("expected a backend call for the new fingerprint, got %d", got)
	}
}

func TestSuggestions_BackendFailure_EmptySet(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	gen.SuggestFunc = func(userName string, history []domain.CompletedRide) ([]domain.Suggestion, error) {
		return nil, errTestFailure
	}
	svc := service.NewSuggestionService(gen, nil, logger.Nop())

	got := svc.Refresh(context.Background(), domain.RideStatusIdle, "rider", nil)
	if got != nil {
		t.Errorf("expected no suggestions on failure, got %v", got)
	}
	if svc.Current() != nil {
		t.Error("expected the current set empty after a failure")
	}
}

func TestSuggestions_DispatchByKind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		suggestion domain.Suggestion
		want       service.DispatchResult
	}{
		{
			name:       "book ride fills the destination",
			suggestion: domain.Suggestion{Kind: domain.SuggestionBookRide, Title: "Office", Destination: "MG Road"},
			want:       service.DispatchResult{Destination: "MG Road"},
		},
		{
			name:       "explore hands off the query",
			suggestion: domain.Suggestion{Kind: domain.SuggestionExplore, Title: "Cafes", Query: "cafes nearby"},
			want:       service.DispatchResult{Query: "cafes nearby"},
		},
		{
			name:       "unknown kind is a no-op",
			suggestion: domain.Suggestion{Kind: domain.SuggestionKind("WEATHER")},
			want:       service.DispatchResult{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := service.Dispatch(tc.suggestion); got != tc.want {
				t.Errorf("Dispatch() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
