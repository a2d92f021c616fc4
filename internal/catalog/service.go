// Package catalog serves the marketplace listings and flights.
package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  RepoInterface
	cache cache.ListingCache
	sfg   singleflight.Group // Prevents cache stampede
	log   zerolog.Logger
}

func NewService(repo RepoInterface, c cache.ListingCache, log zerolog.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		repo:  repo,
		cache: c,
		log:   log.With().Str("component", "catalog").Logger(),
	}
}

// Search returns the listings matching f, served from cache when possible.
func (s *Service) Search(ctx context.Context, f Filter) ([]domain.Product, error) {
	key := "products:" + f.key()
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		var cached []domain.Product
		if s.lookup(ctx, key, &cached) {
			return cached, nil
		}

		products, err := s.repo.SearchProducts(ctx, f)
		if err != nil {
			return nil, err
		}
		s.store(key, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	// singleflight hands the same slice to every waiter
	return domain.CloneProducts(v.([]domain.Product)), nil
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Flights returns the flights on a route in the requested order.
func (s *Service) Flights(ctx context.Context, q FlightQuery) ([]domain.Flight, error) {
	key := "flights:" + q.key()
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		var cached []domain.Flight
		if s.lookup(ctx, key, &cached) {
			return cached, nil
		}

		flights, err := s.repo.SearchFlights(ctx, q)
		if err != nil {
			return nil, err
		}
		s.store(key, flights)
		return flights, nil
	})
	if err != nil {
		return nil, err
	}
	flights := v.([]domain.Flight)
	return append(make([]domain.Flight, 0, len(flights)), flights...), nil
}

func (s *Service) Flight(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetFlight(ctx, id)
}

func (s *Service) Categories() []string {
	return Categories()
}

// lookup reports a hit; cache failures are logged and treated as misses.
func (s *Service) lookup(ctx context.Context, key string, dst any) bool {
	err := s.cache.Get(ctx, key, dst)
	if err == nil {
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return true
	}
	metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Str("key", key).Msg("cache get error")
	}
	return false
}

func (s *Service) store(key string, v any) {
	go func() {
		if err := s.cache.Set(context.Background(), key, v); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache set error")
		}
	}()
}
