// README: Detail cache backed by Redis.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"roam/internal/places"
	"roam/internal/types"
)

const (
	detailsKeyPrefix = "roam:place:%s:details"
	// TTL for cached detail records (hours and open-now flags go stale fast).
	detailsTTL = 24 * time.Hour
)

// Store caches fetched place details so repeated mentions of a place within
// a day skip the three-way lookup fan-out.
type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// GetDetails returns the cached record for a place, and whether one exists.
func (s *Store) GetDetails(ctx context.Context, placeID types.ID) (places.Details, bool, error) {
	val, err := s.redis.Get(ctx, detailsKey(placeID)).Result()
	if err == redis.Nil {
		return places.Details{}, false, nil
	}
	if err != nil {
		return places.Details{}, false, err
	}
	var d places.Details
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return places.Details{}, false, err
	}
	return d, true, nil
}

// PutDetails caches a fetched record under its place id.
func (s *Store) PutDetails(ctx context.Context, d places.Details) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, detailsKey(d.Candidate.PlaceID), raw, detailsTTL).Err()
}

func detailsKey(placeID types.ID) string {
	return fmt.Sprintf(detailsKeyPrefix, string(placeID))
}
