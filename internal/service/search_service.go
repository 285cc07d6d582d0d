package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/events"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/persistence"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/repository"
)

const searchCachePrefix = "search:"

// SearchResult groups café and menu item matches for a query.
type SearchResult struct {
	Cafes []CafeMatch `json:"cafes"`
	Items []ItemMatch `json:"items"`
}

// CafeMatch is a café directory hit.
type CafeMatch struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// ItemMatch is a menu item hit with its café.
type ItemMatch struct {
	CafeSlug string  `json:"cafe_slug"`
	CafeName string  `json:"cafe_name"`
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	InStock  bool    `json:"in_stock"`
}

// SearchService answers café and menu queries with a Redis
// read-through cache in front of the document store.
type SearchService struct {
	cafes  repository.CafeRepository
	cache  *persistence.Redis
	logger *zap.Logger
	ttl    time.Duration
}

// NewSearchService constructs the service.
func NewSearchService(cafeRepo repository.CafeRepository, cache *persistence.Redis, logger *zap.Logger, ttl time.Duration) *SearchService {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &SearchService{cafes: cafeRepo, cache: cache, logger: logger, ttl: ttl}
}

// RegisterInvalidation subscribes cache invalidation to menu changes.
func (s *SearchService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventMenuChanged, func(ctx context.Context, _ events.Event) error {
		s.invalidate(ctx)
		return nil
	})
}

// Search runs a text query over cafés and their menus.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Cafes: []CafeMatch{}, Items: []ItemMatch{}}, nil
	}

	cacheKey := searchCachePrefix + strings.ToLower(query)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	cafes, err := s.cafes.SearchText(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Cafes: []CafeMatch{}, Items: []ItemMatch{}}
	needle := strings.ToLower(query)
	for i := range cafes {
		cafe := &cafes[i]
		result.Cafes = append(result.Cafes, CafeMatch{
			Slug:     cafe.Slug,
			Name:     cafe.Name,
			Location: cafe.Location,
		})
		for _, item := range cafe.Menu {
			if strings.Contains(strings.ToLower(item.Name), needle) ||
				strings.Contains(strings.ToLower(item.Description), needle) {
				result.Items = append(result.Items, ItemMatch{
					CafeSlug: cafe.Slug,
					CafeName: cafe.Name,
					ItemID:   item.ID,
					Name:     item.Name,
					Price:    item.Price,
					InStock:  item.InStock,
				})
			}
		}
	}

	s.toCache(ctx, cacheKey, result)
	return result, nil
}

func (s *SearchService) fromCache(ctx context.Context, key string) *SearchResult {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("search cache read failed", zap.Error(err))
		}
		return nil
	}
	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	return &result
}

func (s *SearchService) toCache(ctx context.Context, key string, result *SearchResult) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("search cache write failed", zap.Error(err))
	}
}

func (s *SearchService) invalidate(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	iter := s.cache.Client.Scan(ctx, 0, searchCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Client.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("search cache invalidation failed", zap.Error(err))
			return
		}
	}
}
