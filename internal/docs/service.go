// ABOUTME: Document service composing fetcher, cache, and library snapshot
// ABOUTME: Startup fetch with cache fallback, optional periodic refresh with atomic swap

package docs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Fetcher loads the document set from its source.
type Fetcher interface {
	Fetch(ctx context.Context) (map[string]string, error)
}

// Service owns the current Library snapshot. Load must succeed before the
// bot starts; after that an optional refresh loop swaps in fresh
// snapshots without blocking readers.
type Service struct {
	fetcher      Fetcher
	cache        *Cache // may be nil when no cache path is configured
	refreshEvery time.Duration
	logger       *slog.Logger

	mu  sync.RWMutex
	lib *Library

	done      chan struct{}
	closeOnce sync.Once
}

// NewService creates a Service. refreshEvery of zero disables refresh.
func NewService(fetcher Fetcher, cache *Cache, refreshEvery time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:      fetcher,
		cache:        cache,
		refreshEvery: refreshEvery,
		logger:       logger.With("component", "docs"),
		done:         make(chan struct{}),
	}
}

// Load performs the startup fetch. A fetch failure falls back to the
// cached snapshot; Load fails only when neither yields any documents --
// a bot with no documents cannot answer anything.
func (s *Service) Load(ctx context.Context) error {
	fetched, err := s.fetcher.Fetch(ctx)
	if err == nil {
		s.swap(NewLibrary(fetched))
		s.saveToCache(ctx, fetched)
		if s.refreshEvery > 0 {
			go s.refreshLoop()
		}
		return nil
	}
	s.logger.Warn("document fetch failed, trying cache", "error", err)

	if s.cache != nil {
		cached, cacheErr := s.cache.Load(ctx)
		if cacheErr == nil && len(cached) > 0 {
			s.logger.Info("serving cached document snapshot", "count", len(cached))
			s.swap(NewLibrary(cached))
			if s.refreshEvery > 0 {
				go s.refreshLoop()
			}
			return nil
		}
		if cacheErr != nil {
			s.logger.Warn("cache load failed", "error", cacheErr)
		}
	}

	return fmt.Errorf("loading documents: %w", err)
}

// Library returns the current snapshot.
func (s *Service) Library() *Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib
}

// Close stops the refresh loop. Safe to call multiple times.
func (s *Service) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Service) swap(lib *Library) {
	s.mu.Lock()
	s.lib = lib
	s.mu.Unlock()
}

func (s *Service) saveToCache(ctx context.Context, fetched map[string]string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, fetched); err != nil {
		s.logger.Warn("failed to cache documents", "error", err)
	}
}

// refreshLoop periodically re-fetches the documents. A failed refresh
// keeps the current snapshot.
func (s *Service) refreshLoop() {
	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			fetched, err := s.fetcher.Fetch(ctx)
			if err != nil {
				s.logger.Warn("document refresh failed, keeping current snapshot", "error", err)
				cancel()
				continue
			}
			s.swap(NewLibrary(fetched))
			s.saveToCache(ctx, fetched)
			cancel()
			s.logger.Info("documents refreshed", "count", len(fetched))
		case <-s.done:
			return
		}
	}
}
