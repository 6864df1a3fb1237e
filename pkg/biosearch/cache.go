package biosearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bioez-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// CachedSource keeps successful results per database and query for a TTL.
// Failures are never cached.
type CachedSource struct {
	next  Source
	cache *cache.Cache
}

func NewCachedSource(next Source, c *cache.Cache) *CachedSource {
	return &CachedSource{next: next, cache: c}
}

// NewResultCache builds the cache shared by all cached sources.
func NewResultCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 2*ttl)
}

func (s *CachedSource) Database() string { return s.next.Database() }

func (s *CachedSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	key := fmt.Sprintf("%s:%d:%s", s.next.Database(), limit, strings.ToLower(strings.TrimSpace(query)))
	if v, ok := s.cache.Get(key); ok {
		return append([]entity.SearchResult(nil), v.([]entity.SearchResult)...), nil
	}
	results, err := s.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, append([]entity.SearchResult(nil), results...))
	return results, nil
}
