// README: Search orchestrator for candidate resolution and detail fan-out.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"roam/internal/modules/intent"
	"roam/internal/places"
	"roam/internal/types"
)

// DefaultDetailCap bounds how many candidates get detail enrichment per turn.
const DefaultDetailCap = 8

// Cache is the optional read-through detail cache consulted before a fetch.
type Cache interface {
	GetDetails(ctx context.Context, placeID types.ID) (places.Details, bool, error)
	PutDetails(ctx context.Context, d places.Details) error
}

type Service struct {
	lookup places.Lookup
	cache  Cache
	cap    int
	logger *slog.Logger
}

// NewService creates the orchestrator. cache may be nil to disable caching.
func NewService(lookup places.Lookup, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{lookup: lookup, cache: cache, cap: DefaultDetailCap, logger: logger}
}

// WithDetailCap overrides the per-turn enrichment cap.
func (s *Service) WithDetailCap(cap int) *Service {
	if cap > 0 {
		s.cap = cap
	}
	return s
}

// ResolveCandidates returns the candidates for a turn. An explicit selection
// short-circuits the search entirely; otherwise the turn's parameters drive a
// search, and results come back sorted ascending by distance from ref with a
// stable tie-break (service order preserved for equal distances).
func (s *Service) ResolveCandidates(ctx context.Context, it intent.Intent, ref types.Point) ([]places.Candidate, error) {
	if it.SelectedCandidate != nil {
		return []places.Candidate{*it.SelectedCandidate}, nil
	}

	params := places.SearchParams{Query: it.Caption, Limit: intent.DefaultResultLimit}
	if it.Params != nil {
		params = *it.Params
	}

	candidates, err := s.lookup.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("candidate search: %w", err)
	}

	sortByDistance(candidates, func(c places.Candidate) float64 {
		return distanceKm(ref, c.Location)
	})
	return candidates, nil
}

// FetchDetails enriches at most cap candidates from the front of the
// (already distance-sorted) list. Per candidate, photos, tips, and the
// details record are fetched concurrently; one candidate's failure is logged
// and drops only that candidate, never its siblings. The call returns only
// after every attempted candidate has resolved or been dropped, with the
// survivors re-sorted by distance from ref.
func (s *Service) FetchDetails(ctx context.Context, candidates []places.Candidate, ref types.Point) []places.Details {
	n := len(candidates)
	if n > s.cap {
		n = s.cap
	}

	results := make([]*places.Details, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int, cand places.Candidate) {
			defer wg.Done()
			d, err := s.fetchOne(ctx, cand)
			if err != nil {
				s.logger.Warn("detail fetch failed, dropping candidate",
					"place_id", cand.PlaceID, "name", cand.Name, "error", err)
				return
			}
			results[i] = &d
		}(i, candidates[i])
	}
	wg.Wait()

	details := make([]places.Details, 0, n)
	for _, d := range results {
		if d != nil {
			details = append(details, *d)
		}
	}
	sortByDistance(details, func(d places.Details) float64 {
		return distanceKm(ref, d.Candidate.Location)
	})
	return details
}

// Autocomplete resolves partial input into place suggestions near ref.
func (s *Service) Autocomplete(ctx context.Context, text string, ref types.Point) ([]places.Candidate, error) {
	candidates, err := s.lookup.Autocomplete(ctx, text, ref)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return candidates, nil
}

// fetchOne resolves the complete detail record for a single candidate.
// Any sub-fetch failing makes the whole candidate detail-less for this turn;
// a Details value is never partially constructed.
func (s *Service) fetchOne(ctx context.Context, cand places.Candidate) (places.Details, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.GetDetails(ctx, cand.PlaceID); err == nil && ok {
			cached.Candidate = cand
			return cached, nil
		}
	}

	var (
		photos []places.Photo
		tips   []places.Tip
		record places.Details
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photos, err = s.lookup.Photos(gctx, cand.PlaceID)
		return err
	})
	g.Go(func() error {
		var err error
		tips, err = s.lookup.Tips(gctx, cand.PlaceID)
		return err
	})
	g.Go(func() error {
		var err error
		record, err = s.lookup.Details(gctx, cand.PlaceID, places.DefaultDetailFields)
		return err
	})
	if err := g.Wait(); err != nil {
		return places.Details{}, err
	}

	// The search-time candidate wins over the detail response's echo of it:
	// it carries the ref id and coordinates this turn already knows.
	record.Candidate = cand
	if len(photos) > 0 {
		record.Photos = photos
	}
	if len(tips) > 0 {
		record.Tips = tips
	}

	if s.cache != nil {
		if err := s.cache.PutDetails(ctx, record); err != nil {
			s.logger.Warn("detail cache write failed", "place_id", cand.PlaceID, "error", err)
		}
	}
	return record, nil
}
