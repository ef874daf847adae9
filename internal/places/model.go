// README: Place candidate and detail records returned by the lookup service.
package places

import (
	"time"

	"github.com/google/uuid"

	"roam/internal/types"
)

// Candidate is a located place returned by search or autocomplete, before
// detail enrichment. Merge equality uses PlaceID; RefID distinguishes two
// selections of the same place within one conversation.
type Candidate struct {
	PlaceID    types.ID
	RefID      types.ID
	Name       string
	Categories []string
	Location   types.Point
	Address    string
	City       string
	Country    string
	ChainIDs   []string
}

// NewRef stamps a fresh local correlation id on the candidate.
func (c Candidate) NewRef() Candidate {
	c.RefID = types.ID(uuid.NewString())
	return c
}

// SamePlace reports whether two candidates refer to the same external place.
func (c Candidate) SamePlace(other Candidate) bool {
	return c.PlaceID != "" && c.PlaceID == other.PlaceID
}

// Photo is a single place photo.
type Photo struct {
	ID     types.ID
	URL    string
	Width  int
	Height int
}

// Tip is a short user-written note about a place.
type Tip struct {
	ID        types.ID
	Text      string
	Author    string
	CreatedAt time.Time
}

// Details is the enriched record for one candidate. It is produced whole by
// the search orchestrator after a successful details fetch; a failed fetch
// yields no Details at all, never a partial one.
type Details struct {
	Candidate    Candidate
	Description  string
	Phone        string
	Fax          string
	Email        string
	Website      string
	Instagram    string
	Facebook     string
	Verified     bool
	HoursText    string
	PopularHours string
	OpenNow      *bool
	Rating       float64
	RatingCount  int
	Popularity   float64
	PriceTier    int
	Menu         string
	DateClosed   string
	Tastes       []string
	Features     []string
	Photos       []Photo
	Tips         []Tip
}

// SearchParams are the structured, turn-scoped search inputs derived from a
// caption. Built fresh per turn and never mutated after construction.
type SearchParams struct {
	Query     string
	Near      string
	NearPoint *types.Point
	RadiusM   int
	MinPrice  int
	MaxPrice  int
	OpenNow   bool
	OpenAt    *time.Time
	Sort      string
	Limit     int
	Tastes    []string
}
