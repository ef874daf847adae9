// README: Per-conversation intent history with late-arrival reconciliation.
package history

import (
	"errors"
	"sync"

	"roam/internal/modules/intent"
	"roam/internal/places"
	"roam/internal/types"
)

// ErrNoIntent is returned when an operation needs a current turn and the
// history holds none. The store is left exactly as it was.
var ErrNoIntent = errors.New("no intent found")

// Store is the ordered, append-only sequence of turns for one conversation.
// Mutation happens only through Append, PatchIfFresherTurn, and
// ReconcileAcrossHistory; a single mutex serializes them so the
// completeness checks always read a consistent snapshot before writing.
// Intent values themselves are immutable and safe to share with readers.
type Store struct {
	mu    sync.Mutex
	turns []intent.Intent

	// missingDetails maps a place id to the turn indices whose selected
	// candidate still lacks details. Maintained incrementally so a late
	// detail arrival touches only the affected turns.
	missingDetails map[types.ID]map[int]struct{}
	// emptyCandidates holds the turn indices with no candidate list yet.
	emptyCandidates map[int]struct{}
	// latestCandidates is the most recent non-empty candidate list seen in
	// this conversation; it backfills older empty turns on reconciliation.
	latestCandidates []places.Candidate

	subs []chan struct{}
}

func NewStore() *Store {
	return &Store{
		missingDetails:  make(map[types.ID]map[int]struct{}),
		emptyCandidates: make(map[int]struct{}),
	}
}

// Subscribe returns a channel that receives a signal after every mutation
// that changed the history. The signal carries no payload beyond
// "history changed, re-read".
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Append adds a turn to the end of the sequence.
func (s *Store) Append(it intent.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, it)
	s.index(len(s.turns) - 1)
	s.notify()
}

// PatchIfFresherTurn replaces the current turn in place when the new intent
// is the same caption and strictly more complete: candidates where there were
// none, or a details list where there was none. This keeps a stale
// empty-result turn from surviving once the real result lands microseconds
// later. The turn's position and id are preserved. Returns whether a
// replacement happened.
func (s *Store) PatchIfFresherTurn(it intent.Intent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.turns) == 0 {
		return false
	}
	idx := len(s.turns) - 1
	cur := s.turns[idx]

	if cur.Caption != it.Caption {
		return false
	}
	fresher := (len(cur.Candidates) == 0 && len(it.Candidates) > 0) ||
		(cur.DetailsList == nil && it.DetailsList != nil)
	if !fresher {
		return false
	}

	it.ID = cur.ID
	s.deindex(idx)
	s.turns[idx] = it
	s.index(idx)
	s.notify()
	return true
}

// ReconcileAcrossHistory patches every turn that the now-resolved details can
// strictly enrich: turns whose selected candidate matches by place id and
// still lack details get them; turns with no candidate list get the latest
// available one. A turn that already carries details is never overwritten,
// even when the new details differ: first writer wins, per field, forever.
// Replacement is positional; ids never change. Returns ErrNoIntent on an
// empty history, leaving the store untouched.
func (s *Store) ReconcileAcrossHistory(cand places.Candidate, det places.Details) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.turns) == 0 {
		return ErrNoIntent
	}

	changed := false

	for idx := range s.missingDetails[cand.PlaceID] {
		turn := s.turns[idx]
		if turn.SelectedDetails != nil || turn.SelectedCandidate == nil {
			continue
		}
		if !turn.SelectedCandidate.SamePlace(cand) {
			continue
		}
		s.turns[idx] = turn.WithSelectedDetails(det)
		changed = true
	}
	delete(s.missingDetails, cand.PlaceID)

	if len(s.latestCandidates) > 0 {
		for idx := range s.emptyCandidates {
			turn := s.turns[idx]
			if len(turn.Candidates) > 0 {
				continue
			}
			s.turns[idx] = turn.WithCandidates(s.latestCandidates)
			delete(s.emptyCandidates, idx)
			changed = true
		}
	}

	if changed {
		s.notify()
	}
	return nil
}

// Current returns the latest turn, or ErrNoIntent on an empty history.
func (s *Store) Current() (intent.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.turns) == 0 {
		return intent.Intent{}, ErrNoIntent
	}
	return s.turns[len(s.turns)-1], nil
}

// Turns returns a read-only snapshot of the whole sequence.
func (s *Store) Turns() []intent.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]intent.Intent, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// index records what turn idx is still missing. Callers hold the mutex.
func (s *Store) index(idx int) {
	it := s.turns[idx]
	if it.SelectedCandidate != nil && it.SelectedDetails == nil {
		pid := it.SelectedCandidate.PlaceID
		if s.missingDetails[pid] == nil {
			s.missingDetails[pid] = make(map[int]struct{})
		}
		s.missingDetails[pid][idx] = struct{}{}
	}
	if len(it.Candidates) == 0 {
		s.emptyCandidates[idx] = struct{}{}
	} else {
		s.latestCandidates = it.Candidates
	}
}

func (s *Store) deindex(idx int) {
	it := s.turns[idx]
	if it.SelectedCandidate != nil {
		pid := it.SelectedCandidate.PlaceID
		delete(s.missingDetails[pid], idx)
		if len(s.missingDetails[pid]) == 0 {
			delete(s.missingDetails, pid)
		}
	}
	delete(s.emptyCandidates, idx)
}

func (s *Store) notify() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
