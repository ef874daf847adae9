package usage

import (
	"context"

	"roam/internal/types"
)

// Service orchestrates lookup-quota logic.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseLookup deducts one lookup from the session's monthly allowance.
// If the session row does not exist yet it is initialised and the lookup is
// immediately consumed. Returns ErrInsufficientLookups when the quota for
// the current month is exhausted.
func (s *Service) UseLookup(ctx context.Context, sid types.ID) error {
	err := s.store.UseLookup(ctx, sid)
	if err != ErrInsufficientLookups {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureSession(ctx, sid); initErr != nil {
		return initErr
	}
	return s.store.UseLookup(ctx, sid)
}
