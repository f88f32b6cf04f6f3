package cache

import (
	"context"
	"fmt"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	basecache "github.com/fedegarcia/hockeyclub/internal/platform/cache"
	"github.com/fedegarcia/hockeyclub/internal/platform/resilience"
)

// DivisionRepository serves division reads from an in-process TTL cache and
// shields the database behind a circuit breaker. Divisions are seed data that
// changes a few times a year, so a stale window is acceptable.
type DivisionRepository struct {
	next    division.Repository
	cache   *basecache.Store
	breaker *resilience.CircuitBreaker
}

func NewDivisionRepository(next division.Repository, cache *basecache.Store, breaker *resilience.CircuitBreaker) *DivisionRepository {
	return &DivisionRepository{next: next, cache: cache, breaker: breaker}
}

func (r *DivisionRepository) List(ctx context.Context) ([]division.Division, error) {
	v, err := r.cache.GetOrLoad(ctx, "division:list", func(ctx context.Context) (any, error) {
		items, err := r.load(ctx, func(ctx context.Context) (any, error) {
			return r.next.List(ctx)
		})
		if err != nil {
			return nil, err
		}
		listed, _ := items.([]division.Division)
		return append([]division.Division(nil), listed...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]division.Division)
	return append([]division.Division(nil), items...), nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, divisionID string) (division.Division, bool, error) {
	key := "division:id:" + divisionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.load(ctx, func(ctx context.Context) (any, error) {
			item, exists, err := r.next.GetByID(ctx, divisionID)
			if err != nil {
				return nil, err
			}
			return cachedDivisionByID{value: item, exists: exists}, nil
		})
	})
	if err != nil {
		return division.Division{}, false, err
	}

	cached, _ := v.(cachedDivisionByID)
	return cached.value, cached.exists, nil
}

// load runs the database read through the breaker when one is configured; a
// cache hit never reaches this point, so an open circuit only blocks cold
// reads.
func (r *DivisionRepository) load(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if r.breaker == nil {
		return fn(ctx)
	}

	if err := r.breaker.Allow(); err != nil {
		return nil, fmt.Errorf("division reads suspended: %w", err)
	}

	v, err := fn(ctx)
	if err != nil {
		r.breaker.RecordFailure()
		return nil, err
	}

	r.breaker.RecordSuccess()
	return v, nil
}

type cachedDivisionByID struct {
	value  division.Division
	exists bool
}
