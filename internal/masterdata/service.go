package masterdata

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/cache"
)

const lookupFlight = "masterdata:lookup"

// Service resolves master data through a Redis read-through cache. Concurrent
// callers share one backend request.
type Service struct {
	source Source
	cache  *cache.JSON
	logger *slog.Logger
	group  singleflight.Group
}

// NewService builds a Service. cache may be nil.
func NewService(source Source, c *cache.JSON, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: c, logger: logger}
}

// Lookup returns the reference mapping. The result is never nil on success.
func (s *Service) Lookup(ctx context.Context) (Data, error) {
	resultChan := s.group.DoChan(lookupFlight, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Data), nil
	}
}

func (s *Service) fetch(ctx context.Context) (Data, error) {
	key, err := s.cache.BuildKey(ctx, "lookup")
	if err != nil {
		s.logger.Warn("master data cache key", slog.Any("error", err))
		key = lookupFlight
	}
	var data Data
	err = s.cache.Fetch(ctx, key, &data, func(ctx context.Context) (any, error) {
		var fresh Data
		if err := s.source.MasterData(ctx, &fresh); err != nil {
			return nil, err
		}
		if fresh == nil {
			fresh = Data{}
		}
		return fresh, nil
	})
	if err != nil {
		return nil, fmt.Errorf("masterdata: lookup: %w", err)
	}
	if data == nil {
		data = Data{}
	}
	return data, nil
}

// Refresh drops cached master data so the next Lookup hits the backend.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.cache.Bump(ctx); err != nil {
		return fmt.Errorf("masterdata: refresh: %w", err)
	}
	s.group.Forget(lookupFlight)
	return nil
}
