package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// Fetcher loads the full menu from the point-of-sale catalog.
type Fetcher interface {
	ListCatalog(ctx context.Context) ([]catalog.Item, error)
}

// Service serves menu items, caching the upstream catalog for a short TTL
// so menu pages do not hit the provider on every request.
type Service struct {
	fetcher Fetcher
	ttl     time.Duration
	log     logger.Logger

	mu        sync.RWMutex
	items     []catalog.Item
	fetchedAt time.Time
	now       func() time.Time
}

func NewService(fetcher Fetcher, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		fetcher: fetcher,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Items returns the cached menu, refreshing it when the cache is stale.
// A failed refresh falls back to the previous snapshot when one exists.
func (s *Service) Items(ctx context.Context) ([]catalog.Item, error) {
	s.mu.RLock()
	if s.items != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		items := s.items
		s.mu.RUnlock()
		return items, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if s.items != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.items, nil
	}

	items, err := s.fetcher.ListCatalog(ctx)
	if err != nil {
		if s.items != nil {
			s.log.Warn("catalog refresh failed, serving stale menu", logger.Error(err))
			return s.items, nil
		}
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	s.items = items
	s.fetchedAt = s.now()
	return items, nil
}

// Item looks up a single menu item by id.
func (s *Service) Item(ctx context.Context, id string) (*catalog.Item, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, catalog.ErrItemNotFound
}

// Invalidate drops the cached snapshot so the next read refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.fetchedAt = time.Time{}
}
