package service

import (
	"context"
	"fmt"
	"sync"

	"chaloride/internal/domain"
	"chaloride/internal/genai"
	"chaloride/internal/logger"
)

// SuggestionCacheInterface is the optional read-through cache in front of
// the suggestion call. A nil cache degrades to direct calls.
type SuggestionCacheInterface interface {
	Get(ctx context.Context, key string) ([]domain.Suggestion, error)
	Set(ctx context.Context, key string, suggestions []domain.Suggestion) error
}

// SuggestionService prefetches personalized shortcuts for the idle screen.
// Best-effort throughout: any failure leaves the suggestion set empty and
// is logged, never surfaced.
type SuggestionService struct {
	generator genai.RideGenerator
	cache     SuggestionCacheInterface
	log       logger.Logger

	mu      sync.Mutex
	current []domain.Suggestion
}

// NewSuggestionService creates a new SuggestionService. cache may be nil.
func NewSuggestionService(generator genai.RideGenerator, cache SuggestionCacheInterface, log logger.Logger) *SuggestionService {
	return &SuggestionService{
		generator: generator,
		cache:     cache,
		log:       log,
	}
}

// Refresh fetches suggestions for the given user and ride history. It runs
// only while the lifecycle is IDLE; in any other state the set is cleared.
func (s *SuggestionService) Refresh(ctx context.Context, status domain.RideStatus, userName string, history []*domain.CompletedRide) []domain.Suggestion {
	if status != domain.RideStatusIdle {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return nil
	}

	key := cacheKey(userName, history)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			s.store(cached)
			return cached
		}
	}

	rides := make([]domain.CompletedRide, 0, len(history))
	for _, h := range history {
		rides = append(rides, *h)
	}

	suggestions, err := s.generator.SuggestShortcuts(ctx, userName, rides)
	if err != nil {
		s.log.Warn("suggestion prefetch failed", logger.Error(err))
		s.store(nil)
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, suggestions); err != nil {
			s.log.Warn("suggestion cache write failed", logger.Error(err))
		}
	}
	s.store(suggestions)
	return suggestions
}

// Current returns the last fetched suggestion set.
func (s *SuggestionService) Current() []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SuggestionService) store(suggestions []domain.Suggestion) {
	s.mu.Lock()
	s.current = suggestions
	s.mu.Unlock()
}

// cacheKey fingerprints the inputs that should invalidate the cached set:
// the user plus the shape of their history.
func cacheKey(userName string, history []*domain.CompletedRide) string {
	last := ""
	if len(history) > 0 {
		last = history[len(history)-1].Destination
	}
	return fmt.Sprintf("suggestions:%s:%d:%s", userName, len(history), last)
}

// DispatchResult is what a suggestion click resolves to.
type DispatchResult struct {
	// Destination is set for BOOK_RIDE: the caller writes it into the
	// ride request's destination field.
	Destination string
	// Query is set for EXPLORE: the caller hands it to the external
	// search view.
	Query string
}

// Dispatch resolves a suggestion click into its effect. Both kinds are
// simple dispatches, not state machines.
func Dispatch(s domain.Suggestion) DispatchResult {
	switch s.Kind {
	case domain.SuggestionBookRide:
		return DispatchResult{Destination: s.Destination}
	case domain.SuggestionExplore:
		return DispatchResult{Query: s.Query}
	default:
		return DispatchResult{}
	}
}
