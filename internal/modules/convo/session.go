// README: Conversation session; owns one history sequence and its context.
package convo

import (
	"sync"

	"roam/internal/modules/history"
	"roam/internal/types"
)

// Session is the explicitly owned per-conversation state: the history
// sequence, the reference location used for distance sorting, and the result
// titles produced for the latest turn (share-request matching reads them).
// All history mutation funnels through the store's three operations.
type Session struct {
	ID      types.ID
	Near    types.Point
	History *history.Store

	mu     sync.Mutex
	titles []string
}

func NewSession(id types.ID, near types.Point) *Session {
	return &Session{ID: id, Near: near, History: history.NewStore()}
}

// RememberTitles records the titles of the latest composed results.
func (s *Session) RememberTitles(titles []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles = titles
}

// Titles returns a snapshot of the latest result titles.
func (s *Session) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out
}
