// README: Intent model; one conversational turn's classified meaning and data.
package intent

import (
	"github.com/google/uuid"

	"roam/internal/places"
	"roam/internal/types"
)

// Kind is the closed set of intent variants.
type Kind string

const (
	KindSearchDefault Kind = "search_default"
	KindTellDefault   Kind = "tell_default"
	KindSaveDefault   Kind = "save_default"
	KindRecallDefault Kind = "recall_default"
	KindOpenDefault   Kind = "open_default"

	KindSearchQuery Kind = "search_query"
	KindTellQuery   Kind = "tell_query"

	KindSearchPlace Kind = "search_place"
	KindTellPlace   Kind = "tell_place"
	KindSavePlace   Kind = "save_place"
	KindRecallPlace Kind = "recall_place"

	KindDetailsDirections Kind = "details_directions"
	KindDetailsPhotos     Kind = "details_photos"
	KindDetailsTips       Kind = "details_tips"
	KindDetailsInstagram  Kind = "details_instagram"
	KindDetailsOpenHours  Kind = "details_open_hours"
	KindDetailsBusyHours  Kind = "details_busy_hours"
	KindDetailsPopularity Kind = "details_popularity"
	KindDetailsCost       Kind = "details_cost"
	KindDetailsMenu       Kind = "details_menu"
	KindDetailsPhone      Kind = "details_phone"

	KindShareResult Kind = "share_result"
	KindUnsupported Kind = "unsupported"
)

// IsDefault reports whether k is one of the generic command defaults.
func (k Kind) IsDefault() bool {
	switch k {
	case KindSearchDefault, KindTellDefault, KindSaveDefault, KindRecallDefault, KindOpenDefault:
		return true
	}
	return false
}

// IsQuery reports whether k is a free-text query variant.
func (k Kind) IsQuery() bool {
	return k == KindSearchQuery || k == KindTellQuery
}

// IsPlaceScoped reports whether k targets a concrete place.
func (k Kind) IsPlaceScoped() bool {
	switch k {
	case KindSearchPlace, KindTellPlace, KindSavePlace, KindRecallPlace:
		return true
	}
	return false
}

// IsDetails reports whether k is a detail drill-down variant.
func (k Kind) IsDetails() bool {
	switch k {
	case KindDetailsDirections, KindDetailsPhotos, KindDetailsTips,
		KindDetailsInstagram, KindDetailsOpenHours, KindDetailsBusyHours,
		KindDetailsPopularity, KindDetailsCost, KindDetailsMenu, KindDetailsPhone:
		return true
	}
	return false
}

// IsTerminal reports whether k ends the turn's automatic transitions.
func (k Kind) IsTerminal() bool {
	return k == KindShareResult || k == KindUnsupported
}

// CanTransition represents the intent state flow as code. Terminal kinds have
// no outgoing transitions; a literal command moves any live state to a
// default; drill-downs require an established query or place context.
func CanTransition(from, to Kind) bool {
	if from.IsTerminal() {
		return false
	}
	if to.IsDefault() {
		return true
	}
	switch {
	case from.IsDefault():
		return to.IsQuery() || to.IsPlaceScoped() || to == KindUnsupported
	case from.IsQuery(), from.IsPlaceScoped(), from.IsDetails():
		return to.IsQuery() || to.IsPlaceScoped() || to.IsDetails() ||
			to == KindShareResult || to == KindUnsupported
	}
	return false
}

// Intent is one turn's resolved meaning. Values are immutable once
// constructed: every update builds a new Intent via the With* helpers and
// replaces the old value in the history store. ID is the sole equality key
// and survives every replacement.
type Intent struct {
	ID                types.ID
	Caption           string
	Kind              Kind
	SelectedCandidate *places.Candidate
	SelectedDetails   *places.Details
	Candidates        []places.Candidate
	DetailsList       []places.Details
	Params            *places.SearchParams
}

// New creates a fresh Intent for a caption with a newly assigned id.
func New(caption string, kind Kind) Intent {
	return Intent{
		ID:      types.ID(uuid.NewString()),
		Caption: caption,
		Kind:    kind,
	}
}

// Same reports entity identity: two Intents are the same turn iff ids match.
func (it Intent) Same(other Intent) bool {
	return it.ID == other.ID
}

// WithKind returns a copy carrying a new kind.
func (it Intent) WithKind(kind Kind) Intent {
	it.Kind = kind
	return it
}

// WithParams returns a copy carrying the derived search parameters.
func (it Intent) WithParams(params places.SearchParams) Intent {
	it.Params = &params
	return it
}

// WithCandidates returns a copy carrying the turn's search candidates.
func (it Intent) WithCandidates(candidates []places.Candidate) Intent {
	it.Candidates = candidates
	return it
}

// WithSelected returns a copy carrying an explicit candidate selection.
func (it Intent) WithSelected(candidate places.Candidate) Intent {
	it.SelectedCandidate = &candidate
	return it
}

// WithSelectedDetails returns a copy carrying resolved details for the
// selected candidate.
func (it Intent) WithSelectedDetails(details places.Details) Intent {
	it.SelectedDetails = &details
	return it
}

// WithDetailsList returns a copy carrying per-candidate detail records.
func (it Intent) WithDetailsList(details []places.Details) Intent {
	it.DetailsList = details
	return it
}
