package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	basecache "github.com/fedegarcia/hockeyclub/internal/platform/cache"
	"github.com/fedegarcia/hockeyclub/internal/platform/resilience"
)

type countingDivisionRepo struct {
	calls int
	fail  bool
	items []division.Division
}

func (r *countingDivisionRepo) List(context.Context) ([]division.Division, error) {
	r.calls++
	if r.fail {
		return nil, errors.New("db down")
	}
	return r.items, nil
}

func (r *countingDivisionRepo) GetByID(_ context.Context, divisionID string) (division.Division, bool, error) {
	r.calls++
	if r.fail {
		return division.Division{}, false, errors.New("db down")
	}
	for _, item := range r.items {
		if item.ID == divisionID {
			return item, true, nil
		}
	}
	return division.Division{}, false, nil
}

func TestDivisionRepository_CachesReads(t *testing.T) {
	year := 2009
	next := &countingDivisionRepo{items: []division.Division{
		{ID: "div-1", Name: "Sub16", Gender: division.GenderFemale, MinBirthYear: &year, IsActive: true},
	}}
	repo := NewDivisionRepository(next, basecache.NewStore(time.Minute), nil)

	for i := 0; i < 3; i++ {
		item, exists, err := repo.GetByID(t.Context(), "div-1")
		if err != nil {
			t.Fatalf("get division: %v", err)
		}
		if !exists || item.Name != "Sub16" {
			t.Fatalf("unexpected division: %+v", item)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected a single backing read, got %d", next.calls)
	}

	// Misses are cached too.
	for i := 0; i < 2; i++ {
		if _, exists, err := repo.GetByID(t.Context(), "div-missing"); err != nil || exists {
			t.Fatalf("unexpected result for missing division: exists=%v err=%v", exists, err)
		}
	}
	if next.calls != 2 {
		t.Fatalf("expected one backing read for the miss, got %d", next.calls)
	}
}

func TestDivisionRepository_BreakerOpensOnFailures(t *testing.T) {
	next := &countingDivisionRepo{fail: true}
	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	repo := NewDivisionRepository(next, basecache.NewStore(time.Minute), breaker)

	for i := 0; i < 2; i++ {
		if _, err := repo.List(t.Context()); err == nil {
			t.Fatal("expected failure from backing repo")
		}
	}

	// The third read is rejected without touching the database.
	callsBefore := next.calls
	_, err := repo.List(t.Context())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if next.calls != callsBefore {
		t.Fatalf("open circuit still reached the database: %d calls", next.calls)
	}
}
