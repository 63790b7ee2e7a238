package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"guest_portal/internal/adapters/observability"
	"guest_portal/internal/domain"
)

type CatalogService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, cacheTTL: ttl}
}

// ListOfferings returns the active catalog of a city, priced for the given property.
// Entities and overrides are fetched concurrently. A failed override query is
// logged and treated as "no overrides"; a failed entity query fails the call.
func (s *CatalogService) ListOfferings(ctx context.Context, q domain.CatalogQuery) ([]domain.ResolvedOffering, error) {
	if strings.TrimSpace(q.City) == "" {
		return nil, fmt.Errorf("city is required: %w", domain.ErrInvalidInput)
	}

	var (
		entities  []domain.CatalogEntity
		overrides []domain.PriceOverride
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		es, err := s.entities(gctx, q.Kind, q.City)
		if err != nil {
			return fmt.Errorf("list %s catalog: %w", q.Kind, err)
		}
		entities = es
		return nil
	})
	if q.PropertyID != nil && *q.PropertyID != "" {
		propertyID := *q.PropertyID
		g.Go(func() error {
			ovs, err := s.repo.ListOverrides(gctx, q.Kind, propertyID)
			if err != nil {
				// cancelled because the entity query already failed
				if gctx.Err() != nil && errors.Is(err, context.Canceled) {
					return nil
				}
				log.Warn().Err(err).
					Str("kind", string(q.Kind)).
					Str("property_id", propertyID).
					Msg("override lookup failed; serving base prices")
				observability.ObserveOverrideFallback(string(q.Kind))
				return nil
			}
			overrides = ovs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return domain.ResolveAll(entities, overrides), nil
}

// entities is cache-aside over the per-city catalog; overrides are never cached.
func (s *CatalogService) entities(ctx context.Context, kind domain.CatalogKind, city string) ([]domain.CatalogEntity, error) {
	key := catalogKey(kind, city)
	var es []domain.CatalogEntity
	if ok, _ := s.cache.Get(ctx, key, &es); ok {
		return es, nil
	}
	es, err := s.repo.ListCatalog(ctx, kind, city)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, es, int(s.cacheTTL.Seconds()))
	return es, nil
}

func (s *CatalogService) SetOverride(ctx context.Context, kind domain.CatalogKind, o domain.PriceOverride) error {
	if o.EntityID == "" || o.PropertyID == "" {
		return fmt.Errorf("entity and property are required: %w", domain.ErrInvalidInput)
	}
	if o.PriceOverride.Valid && o.PriceOverride.Decimal.IsNegative() {
		return fmt.Errorf("price override must not be negative: %w", domain.ErrInvalidInput)
	}
	return s.repo.UpsertOverride(ctx, kind, o)
}

func (s *CatalogService) RemoveOverride(ctx context.Context, kind domain.CatalogKind, propertyID, entityID string) error {
	return s.repo.DeleteOverride(ctx, kind, propertyID, entityID)
}

func catalogKey(kind domain.CatalogKind, city string) string {
	return fmt.Sprintf("catalog:%s:%s", kind, strings.ToLower(strings.TrimSpace(city)))
}
