// Package catalog fetches, caches and searches the educational catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"edu-catalog/internal/catalogcache"
	"edu-catalog/internal/concurrency"
	"edu-catalog/internal/config"
	"edu-catalog/internal/domain"
	"edu-catalog/internal/logger"
	"edu-catalog/internal/mappers"
	"edu-catalog/internal/providers"
)

// Service is the catalog entry point used by the CLI. None of its read
// operations return errors: failures degrade to cached or empty results.
type Service struct {
	source     providers.RecordSource
	cache      *catalogcache.Cache
	normalizer *mappers.Normalizer
	tables     config.CatalogTables
	maxWorkers int
	log        *logger.Logger
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

// WithMaxWorkers caps concurrent topic requests; <=0 runs every topic at once.
func WithMaxWorkers(n int) Option {
	return func(s *Service) { s.maxWorkers = n }
}

func New(source providers.RecordSource, cache *catalogcache.Cache, normalizer *mappers.Normalizer, tables config.CatalogTables, opts ...Option) *Service {
	s := &Service{
		source:     source,
		cache:      cache,
		normalizer: normalizer,
		tables:     tables,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchItems returns the catalog. With useCache a fresh cache entry is
// returned without any network call. Otherwise every selected topic is
// queried concurrently; failed topics contribute nothing. A non-empty result
// replaces the cache entry. If the fan-out itself fails, the last cached
// catalog is returned regardless of age, or an empty list.
func (s *Service) FetchItems(ctx context.Context, useCache bool) (items []domain.EducationalItem) {
	if useCache {
		if cached, ok := s.cache.ReadIfValid(ctx); ok {
			s.log.Debug("catalog served from cache", "items", len(cached))
			return cached
		}
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("catalog fetch panicked, serving stale cache", "panic", r)
			items = s.cache.ReadStaleOrEmpty(ctx)
		}
	}()

	batches, err := s.fetchTopics(ctx)
	if err != nil {
		s.log.Error("catalog fetch failed, serving stale cache", "error", err)
		return s.cache.ReadStaleOrEmpty(ctx)
	}

	// a work listed under several topics keeps its first occurrence
	items = make([]domain.EducationalItem, 0, len(batches)*s.tables.PerTopicLimit)
	seen := make(map[string]struct{}, cap(items))
	dropped := 0
	for _, batch := range batches {
		for _, item := range s.normalizer.NormalizeBatch(batch) {
			if _, dup := seen[item.ID]; dup {
				dropped++
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}
	if dropped > 0 {
		s.log.Debug("dropped duplicate works across topics", "count", dropped)
	}

	if len(items) == 0 {
		s.log.Warn("catalog fetch returned no items, cache left untouched")
		return items
	}

	if err := s.cache.Write(ctx, items); err != nil {
		s.log.Warn("failed to write catalog cache", "error", err)
	}
	s.log.Info("catalog fetched", "topics", len(batches), "items", len(items))
	return items
}

// fetchTopics queries each selected topic and returns the raw batches in
// topic order. Topic failures leave an empty batch and are only logged; a
// panicking topic aborts the whole fetch.
func (s *Service) fetchTopics(ctx context.Context) ([][]providers.Record, error) {
	topics := s.tables.SelectedTopics()
	limit := s.tables.PerTopicLimit

	batches, errs := concurrency.ProcessParallel(ctx, topics, concurrency.ParallelOptions{MaxWorkers: s.maxWorkers},
		func(ctx context.Context, _ int, topic string) ([]providers.Record, error) {
			recs, err := s.source.Subject(ctx, topic, limit)
			if err != nil {
				return nil, &topicError{Topic: topic, Err: err}
			}
			return recs, nil
		})

	for _, err := range errs {
		var perr *concurrency.PanicError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("topic %q: %w", topics[perr.Index], perr)
		}
		var terr *topicError
		if errors.As(err, &terr) {
			s.log.Warn("topic fetch failed", "topic", terr.Topic, "source", s.source.Name(), "error", terr.Err)
			continue
		}
		s.log.Warn("topic fetch failed", "source", s.source.Name(), "error", err)
	}
	return batches, nil
}

type topicError struct {
	Topic string
	Err   error
}

func (e *topicError) Error() string { return fmt.Sprintf("topic %q: %v", e.Topic, e.Err) }
func (e *topicError) Unwrap() error { return e.Err }

// SearchItems runs one full-text query against the source. It never reads
// or writes the cache and returns an empty list on any failure.
func (s *Service) SearchItems(ctx context.Context, query string) []domain.EducationalItem {
	if strings.TrimSpace(query) == "" {
		return []domain.EducationalItem{}
	}

	recs, err := s.source.Search(ctx, query, s.tables.SearchLimit)
	if err != nil {
		s.log.Warn("catalog search failed", "query", query, "source", s.source.Name(), "error", err)
		return []domain.EducationalItem{}
	}
	return s.normalizer.NormalizeBatch(recs)
}

// GetItemByID scans the (possibly cached) catalog for id.
func (s *Service) GetItemByID(ctx context.Context, id string) (domain.EducationalItem, bool) {
	for _, item := range s.FetchItems(ctx, true) {
		if item.ID == id {
			return item, true
		}
	}
	return domain.EducationalItem{}, false
}

// ClearCache removes the cached catalog. It is the only operation that
// reports persistence errors.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear catalog cache: %w", err)
	}
	return nil
}

// Cached returns whatever catalog is stored, ignoring age.
func (s *Service) Cached(ctx context.Context) []domain.EducationalItem {
	return s.cache.ReadStaleOrEmpty(ctx)
}
