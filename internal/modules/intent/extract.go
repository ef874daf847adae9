// README: Parameter extractor; turns caption and tags into structured search params.
package intent

import (
	"sort"
	"strings"

	"roam/internal/places"
	"roam/internal/tagger"
)

const (
	// DefaultRadiusM is the search radius without a proximity phrase.
	DefaultRadiusM = 4000
	// ProximityRadiusM is the tightened radius for "nearby" style captions.
	ProximityRadiusM = 1000
	// DefaultResultLimit bounds how many candidates one search returns.
	DefaultResultLimit = 10

	raisedMinPrice  = 3
	loweredMaxPrice = 2
)

var proximityPhrases = []string{"nearby", "near me", "close by", "around here"}

var negatedExpensivePhrases = []string{
	"not expensive", "not that expensive", "not too expensive", "inexpensive",
}

// queryTags are the tag kinds that survive the query rewrite.
var queryTags = []tagger.Tag{
	tagger.TagTaste, tagger.TagCategory, tagger.TagPlace,
	tagger.TagNoun, tagger.TagAdjective,
}

// Extract derives structured search parameters from a caption and its tags.
// It is deterministic and idempotent, consults neither network nor history,
// and never fails: unusable tags simply leave the raw caption as the query.
func Extract(caption string, tags tagger.Tags) places.SearchParams {
	lower := strings.ToLower(caption)

	params := places.SearchParams{
		Query:   caption,
		RadiusM: DefaultRadiusM,
		Sort:    "relevance",
		Limit:   DefaultResultLimit,
	}

	if containsAny(lower, proximityPhrases) {
		params.RadiusM = ProximityRadiusM
		params.Sort = "distance"
	}

	// Price bounds. The negation guard runs before the "expensive" check so
	// "not that expensive" never raises the floor; "fancy" is checked after
	// the guard and still fires on its own.
	negated := containsAny(lower, negatedExpensivePhrases)
	if strings.Contains(lower, "fancy") || (strings.Contains(lower, "expensive") && !negated) {
		params.MinPrice = raisedMinPrice
	}
	if strings.Contains(lower, "cheap") || negated {
		params.MaxPrice = loweredMaxPrice
	}

	if strings.Contains(lower, "open now") {
		params.OpenNow = true
	}

	if query, tastes := rewriteQuery(caption, tags); query != "" {
		params.Query = query
		params.Tastes = tastes
	}

	return params
}

// rewriteQuery keeps only tokens tagged taste, category, place, noun, or
// adjective, deduplicated in order of first appearance in the caption.
// Returns "" when nothing survives, which keeps the raw caption.
func rewriteQuery(caption string, tags tagger.Tags) (string, []string) {
	lower := strings.ToLower(caption)

	type positioned struct {
		text  string
		index int
	}
	var kept []positioned
	for text := range tags {
		if !tags.HasAny(text, queryTags...) {
			continue
		}
		idx := strings.Index(lower, strings.ToLower(text))
		if idx < 0 {
			continue
		}
		kept = append(kept, positioned{text: text, index: idx})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].index < kept[j].index })

	seen := make(map[string]bool, len(kept))
	var tokens []string
	var tastes []string
	for _, p := range kept {
		key := strings.ToLower(p.text)
		if seen[key] {
			continue
		}
		seen[key] = true
		tokens = append(tokens, p.text)
		if tags.Has(p.text, tagger.TagTaste) {
			tastes = append(tastes, p.text)
		}
	}
	return strings.Join(tokens, " "), tastes
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
