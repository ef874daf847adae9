// README: Search orchestrator tests (sorting, cap, partial failure, cache).
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"roam/internal/modules/intent"
	"roam/internal/places"
	"roam/internal/types"
)

// fakeLookup is an in-memory places.Lookup with per-place failure injection.
type fakeLookup struct {
	mu          sync.Mutex
	candidates  []places.Candidate
	searchErr   error
	failPlaces  map[types.ID]error
	details     map[types.ID]places.Details
	photos      map[types.ID][]places.Photo
	tips        map[types.ID][]places.Tip
	detailCalls int
}

func (f *fakeLookup) Search(_ context.Context, _ places.SearchParams) ([]places.Candidate, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := make([]places.Candidate, len(f.candidates))
	copy(out, f.candidates)
	return out, nil
}

func (f *fakeLookup) Photos(_ context.Context, placeID types.ID) ([]places.Photo, error) {
	if err := f.failFor(placeID); err != nil {
		return nil, err
	}
	return f.photos[placeID], nil
}

func (f *fakeLookup) Tips(_ context.Context, placeID types.ID) ([]places.Tip, error) {
	return f.tips[placeID], nil
}

func (f *fakeLookup) Details(_ context.Context, placeID types.ID, _ []places.Field) (places.Details, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return places.Details{Candidate: places.Candidate{PlaceID: placeID}}, nil
}

func (f *fakeLookup) Autocomplete(_ context.Context, _ string, _ types.Point) ([]places.Candidate, error) {
	return nil, nil
}

func (f *fakeLookup) failFor(placeID types.ID) error {
	if f.failPlaces == nil {
		return nil
	}
	return f.failPlaces[placeID]
}

func candidateAt(id string, lat, lng float64) places.Candidate {
	return places.Candidate{PlaceID: types.ID(id), Name: id, Location: types.Point{Lat: lat, Lng: lng}}
}

func TestResolveCandidatesSortsByDistance(t *testing.T) {
	ref := types.Point{Lat: 25.0, Lng: 121.5}
	lookup := &fakeLookup{candidates: []places.Candidate{
		candidateAt("far", 25.2, 121.5),
		candidateAt("near", 25.01, 121.5),
		candidateAt("mid", 25.1, 121.5),
	}}
	svc := NewService(lookup, nil, nil)

	it := intent.New("find ramen", intent.KindSearchQuery)
	got, err := svc.ResolveCandidates(context.Background(), it, ref)
	if err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}

	want := []string{"near", "mid", "far"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, name)
		}
	}
}

// TestResolveCandidatesStableTieBreak pins the tie-break: equal distances
// keep the order the lookup returned them in.
func TestResolveCandidatesStableTieBreak(t *testing.T) {
	ref := types.Point{Lat: 25.0, Lng: 121.5}
	lookup := &fakeLookup{candidates: []places.Candidate{
		candidateAt("a", 25.05, 121.5),
		candidateAt("b", 25.05, 121.5),
		candidateAt("c", 25.05, 121.5),
	}}
	svc := NewService(lookup, nil, nil)

	got, err := svc.ResolveCandidates(context.Background(), intent.New("find ramen", intent.KindSearchQuery), ref)
	if err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}
	for i, name := range []string{"a", "b", "c"} {
		if got[i].Name != name {
			t.Errorf("position %d = %s, want %s (stable tie-break)", i, got[i].Name, name)
		}
	}
}

func TestResolveCandidatesSelectedShortCircuits(t *testing.T) {
	lookup := &fakeLookup{searchErr: errors.New("must not be called")}
	svc := NewService(lookup, nil, nil)

	selected := candidateAt("chosen", 25.0, 121.5)
	it := intent.New("tell me about chosen", intent.KindTellPlace).WithSelected(selected)

	got, err := svc.ResolveCandidates(context.Background(), it, types.Point{})
	if err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "chosen" {
		t.Errorf("got %v, want only the selected candidate", got)
	}
}

func TestResolveCandidatesSearchError(t *testing.T) {
	wantErr := errors.New("upstream down")
	svc := NewService(&fakeLookup{searchErr: wantErr}, nil, nil)

	_, err := svc.ResolveCandidates(context.Background(), intent.New("find ramen", intent.KindSearchQuery), types.Point{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestFetchDetailsCap(t *testing.T) {
	var candidates []places.Candidate
	for i := 0; i < 12; i++ {
		candidates = append(candidates, candidateAt(fmt.Sprintf("p%d", i), 25.0, 121.5))
	}
	lookup := &fakeLookup{}
	svc := NewService(lookup, nil, nil).WithDetailCap(3)

	got := svc.FetchDetails(context.Background(), candidates, types.Point{})
	if len(got) != 3 {
		t.Fatalf("len = %d, want the cap", len(got))
	}
	if lookup.detailCalls != 3 {
		t.Errorf("detail calls = %d, want 3", lookup.detailCalls)
	}
}

// TestFetchDetailsPartialFailure pins the isolation rule: one candidate
// failing drops only that candidate, the siblings come back complete.
func TestFetchDetailsPartialFailure(t *testing.T) {
	candidates := []places.Candidate{
		candidateAt("ok1", 25.01, 121.5),
		candidateAt("bad", 25.02, 121.5),
		candidateAt("ok2", 25.03, 121.5),
	}
	lookup := &fakeLookup{
		failPlaces: map[types.ID]error{"bad": errors.New("photo backend 500")},
	}
	svc := NewService(lookup, nil, nil)

	got := svc.FetchDetails(context.Background(), candidates, types.Point{Lat: 25.0, Lng: 121.5})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 survivors", len(got))
	}
	for i, name := range []string{"ok1", "ok2"} {
		if got[i].Candidate.Name != name {
			t.Errorf("survivor %d = %s, want %s", i, got[i].Candidate.Name, name)
		}
	}
}

func TestFetchDetailsEmpty(t *testing.T) {
	svc := NewService(&fakeLookup{}, nil, nil)
	if got := svc.FetchDetails(context.Background(), nil, types.Point{}); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

// memCache is an in-memory Cache double.
type memCache struct {
	mu   sync.Mutex
	data map[types.ID]places.Details
	puts int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[types.ID]places.Details)}
}

func (m *memCache) GetDetails(_ context.Context, placeID types.ID) (places.Details, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[placeID]
	return d, ok, nil
}

func (m *memCache) PutDetails(_ context.Context, d places.Details) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[d.Candidate.PlaceID] = d
	m.puts++
	return nil
}

func TestFetchDetailsReadThroughCache(t *testing.T) {
	cand := candidateAt("p1", 25.0, 121.5)
	lookup := &fakeLookup{}
	cache := newMemCache()
	svc := NewService(lookup, cache, nil)

	first := svc.FetchDetails(context.Background(), []places.Candidate{cand}, types.Point{})
	if len(first) != 1 {
		t.Fatalf("first fetch len = %d", len(first))
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}

	second := svc.FetchDetails(context.Background(), []places.Candidate{cand}, types.Point{})
	if len(second) != 1 {
		t.Fatalf("second fetch len = %d", len(second))
	}
	if lookup.detailCalls != 1 {
		t.Errorf("detail calls = %d, the second fetch must hit the cache", lookup.detailCalls)
	}
}
