package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"chaloride/internal/domain"
)

// SuggestionCacheTTL bounds how long a prefetched suggestion set stays
// fresh. Suggestions are cheap to regenerate, so keep it short.
const SuggestionCacheTTL = 5 * time.Minute

// SuggestionCache is a read-through cache for AI-generated suggestion sets.
type SuggestionCache struct {
	client *redis.Client
}

// NewSuggestionCache creates a new SuggestionCache.
func NewSuggestionCache(client *redis.Client) *SuggestionCache {
	return &SuggestionCache{client: client}
}

// Get retrieves a cached suggestion set. A cache miss returns (nil, nil).
func (c *SuggestionCache) Get(ctx context.Context, key string) ([]domain.Suggestion, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var suggestions []domain.Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// Set stores a suggestion set.
func (c *SuggestionCache) Set(ctx context.Context, key string, suggestions []domain.Suggestion) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, SuggestionCacheTTL).Err()
}
