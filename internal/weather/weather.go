// Package weather fetches current conditions from OpenWeatherMap and caches
// formatted reports per city with a read-time TTL.
package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatrelay-ai/chatrelay/internal/logging"
)

// Cache stores formatted weather reports keyed by normalized city name.
// Implementations must never return expired entries.
type Cache interface {
	Get(ctx context.Context, city string) (payload string, ok bool, err error)
	Set(ctx context.Context, city, payload string) error
	Stats(ctx context.Context) (Stats, error)
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	Size           int64   `json:"size"`
	HitRatePercent float64 `json:"hit_rate_percent"`
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func cacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Service combines the upstream client with a cache. Lookup is the single
// entry point used by the get_weather tool.
type Service struct {
	client *Client
	cache  Cache
}

// NewService wires a client and a cache together.
func NewService(client *Client, cache Cache) *Service {
	return &Service{client: client, cache: cache}
}

// Lookup returns the weather report for city and whether it was served from
// cache. A cached entry is only returned while its TTL holds; on miss exactly
// one upstream fetch happens and its result is stored before returning.
// Upstream failures are returned as errors and never cached.
func (s *Service) Lookup(ctx context.Context, city string) (string, bool, error) {
	payload, ok, err := s.cache.Get(ctx, city)
	if err != nil {
		// A broken cache backend degrades to a plain upstream fetch.
		logging.Logger().Warn("weather cache read failed", "city", city, "err", err)
	} else if ok {
		return payload, true, nil
	}

	payload, err = s.client.Current(ctx, city)
	if err != nil {
		return "", false, err
	}

	if err := s.cache.Set(ctx, city, payload); err != nil {
		logging.Logger().Warn("weather cache write failed", "city", city, "err", err)
	}
	return payload, false, nil
}

// Stats exposes the underlying cache counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.cache.Stats(ctx)
}

// ErrorKind classifies upstream weather failures for logging.
type ErrorKind string

const (
	// ErrKindRequest covers transport failures and timeouts.
	ErrKindRequest ErrorKind = "request_error"
	// ErrKindStatus covers non-2xx upstream responses.
	ErrKindStatus ErrorKind = "status_error"
	// ErrKindDecode covers malformed or incomplete response bodies.
	ErrKindDecode ErrorKind = "parse_error"
)

// UpstreamError is a classified failure from the weather API.
type UpstreamError struct {
	Kind ErrorKind
	City string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather upstream %s for %q: %v", e.Kind, e.City, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
