// README: Caption classifier; a total function from caption and context to Kind.
package intent

import (
	"strings"

	"roam/internal/places"
)

// Context carries the classification evidence available at call time. The
// classifier runs twice per turn: once with only the caption, and once more
// after candidates and parameters have resolved, because entity detection and
// candidate presence can promote a query kind to its place-scoped form.
type Context struct {
	Prior           Kind
	Selected        *places.Candidate
	SelectedDetails *places.Details
	NamedEntity     bool
	ResultTitles    []string
}

// commandVocabulary maps exact literal command captions to default kinds.
var commandVocabulary = map[string]Kind{
	"search": KindSearchDefault,
	"tell":   KindTellDefault,
	"save":   KindSaveDefault,
	"recall": KindRecallDefault,
	"open":   KindOpenDefault,
}

// queryTemplate matches free-text captions into a query-family kind. A
// template never fires when the caption ends in a drill-down suffix, so
// "where can I see their menu?" stays a drill-down.
type queryTemplate struct {
	prefixes []string
	base     Kind // kind without entity/selection evidence
	promoted Kind // kind with evidence
}

var queryTemplates = []queryTemplate{
	{
		prefixes: []string{"where can i", "find", "show me", "i'm looking for", "is there"},
		base:     KindSearchQuery,
		promoted: KindSearchPlace,
	},
	{
		prefixes: []string{"tell me about", "what do you know about", "what about", "what is"},
		base:     KindTellQuery,
		promoted: KindTellPlace,
	},
	{
		prefixes: []string{"save"},
		base:     KindSaveDefault,
		promoted: KindSavePlace,
	},
	{
		prefixes: []string{"recall", "what did i save"},
		base:     KindRecallDefault,
		promoted: KindRecallPlace,
	},
}

// detailTemplate matches drill-down captions by literal prefix or suffix,
// independent of selection state. Data availability is validated later, at
// consumption time.
type detailTemplate struct {
	prefixes []string
	suffixes []string
	kind     Kind
}

var detailTemplates = []detailTemplate{
	{
		prefixes: []string{"how do i get to", "directions to", "take me to"},
		suffixes: []string{"how do i get there?", "how do i get there"},
		kind:     KindDetailsDirections,
	},
	{
		prefixes: []string{"show me photos", "show me pictures"},
		suffixes: []string{"photos?", "photos", "pictures?", "pictures"},
		kind:     KindDetailsPhotos,
	},
	{
		prefixes: []string{"any tips"},
		suffixes: []string{"tips?", "tips"},
		kind:     KindDetailsTips,
	},
	{
		prefixes: []string{"what's their instagram"},
		suffixes: []string{"instagram account?", "instagram account", "instagram?", "instagram"},
		kind:     KindDetailsInstagram,
	},
	{
		prefixes: []string{"when is it open", "when are they open", "what are the hours"},
		suffixes: []string{"opening hours?", "opening hours", "open hours?", "open?"},
		kind:     KindDetailsOpenHours,
	},
	{
		prefixes: []string{"how busy", "when is it busy"},
		suffixes: []string{"busy hours?", "busy hours", "busy?"},
		kind:     KindDetailsBusyHours,
	},
	{
		prefixes: []string{"how popular", "is it popular"},
		suffixes: []string{"popular?"},
		kind:     KindDetailsPopularity,
	},
	{
		prefixes: []string{"how much", "how expensive", "what are the prices"},
		suffixes: []string{"cost?", "expensive?", "prices?"},
		kind:     KindDetailsCost,
	},
	{
		prefixes: []string{"what's on the menu", "show me the menu"},
		suffixes: []string{"menu?", "menu"},
		kind:     KindDetailsMenu,
	},
	{
		prefixes: []string{"what's their phone number", "what's their number"},
		suffixes: []string{"phone number?", "phone number", "phone?"},
		kind:     KindDetailsPhone,
	},
}

// Classify resolves a caption into an intent kind. It is total and
// side-effect free: any input, including the empty string, yields a value
// from the closed kind set. Priority order, first match wins:
// literal command, query template, drill-down template, share-result title,
// then Unsupported.
func Classify(caption string, cctx Context) Kind {
	normalized := strings.ToLower(strings.TrimSpace(caption))
	if normalized == "" {
		return KindUnsupported
	}

	if kind, ok := commandVocabulary[normalized]; ok {
		return kind
	}

	if !matchesDetailTemplate(normalized) {
		for _, tmpl := range queryTemplates {
			if !hasAnyPrefix(normalized, tmpl.prefixes) {
				continue
			}
			if cctx.NamedEntity || cctx.Selected != nil {
				return tmpl.promoted
			}
			return tmpl.base
		}
	}

	for _, tmpl := range detailTemplates {
		if hasAnyPrefix(normalized, tmpl.prefixes) || hasAnySuffix(normalized, tmpl.suffixes) {
			return tmpl.kind
		}
	}

	if isShareableTitle(caption, cctx) {
		return KindShareResult
	}

	return KindUnsupported
}

// isShareableTitle reports whether the caption repeats a previously produced
// result title that corresponds to a known field of the selected details.
// Known ambiguity, kept on purpose: a place name recurring as a substring of
// another field can trigger this rule; priority order is preserved as is.
func isShareableTitle(caption string, cctx Context) bool {
	if cctx.SelectedDetails == nil {
		return false
	}

	title := strings.TrimSpace(caption)
	known := false
	for _, t := range cctx.ResultTitles {
		if strings.TrimSpace(t) == title {
			known = true
			break
		}
	}
	if !known {
		return false
	}

	d := cctx.SelectedDetails
	fields := []string{
		d.Candidate.Address, d.Phone, d.Website, d.Description,
		d.HoursText, priceLabel(d.PriceTier),
	}
	for _, f := range fields {
		if f != "" && f == title {
			return true
		}
	}
	for _, tip := range d.Tips {
		if tip.Text == title {
			return true
		}
	}
	return false
}

// priceLabel renders a 1 to 4 price tier the way result descriptors do.
func priceLabel(tier int) string {
	if tier < 1 || tier > 4 {
		return ""
	}
	return strings.Repeat("$", tier)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// matchesDetailTemplate is the fixed disambiguator for query templates:
// a caption that looks like a drill-down never matches a query template,
// even when it starts with a query prefix ("show me photos of ...").
func matchesDetailTemplate(s string) bool {
	for _, tmpl := range detailTemplates {
		if hasAnyPrefix(s, tmpl.prefixes) || hasAnySuffix(s, tmpl.suffixes) {
			return true
		}
	}
	return false
}
