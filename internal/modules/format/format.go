// README: Result formatter; renders intents into presentation-agnostic descriptors.
package format

import (
	"fmt"
	"strings"

	"roam/internal/modules/intent"
)

// ResultKind hints how a descriptor wants to be rendered.
type ResultKind string

const (
	ResultText ResultKind = "text"
	ResultList ResultKind = "list"
	ResultMap  ResultKind = "map"
)

// ChatResult is one presentation-agnostic result descriptor. Titles are what
// the classifier later matches share requests against.
type ChatResult struct {
	Title string
	Body  string
	Kind  ResultKind
}

// FieldAbsentError reports a drill-down against detail data that is not
// there. It is an explicit condition, not a silent no-op: the presentation
// layer skips composing a message, and tests can assert on the field name.
type FieldAbsentError struct {
	Field string
}

func (e *FieldAbsentError) Error() string {
	return "detail field absent: " + e.Field
}

// Compose turns a resolved intent into result descriptors. Drill-down kinds
// are gated on the corresponding detail field being present.
func Compose(it intent.Intent) ([]ChatResult, error) {
	switch {
	case it.Kind.IsDefault():
		return []ChatResult{{Title: defaultPrompt(it.Kind), Kind: ResultText}}, nil
	case it.Kind.IsQuery(), it.Kind.IsPlaceScoped():
		return candidateResults(it), nil
	case it.Kind.IsDetails():
		return detailResult(it)
	case it.Kind == intent.KindShareResult:
		return []ChatResult{{Title: strings.TrimSpace(it.Caption), Kind: ResultText}}, nil
	default:
		return []ChatResult{{Title: "Sorry, I can't help with that one.", Kind: ResultText}}, nil
	}
}

func defaultPrompt(kind intent.Kind) string {
	switch kind {
	case intent.KindSearchDefault:
		return "What would you like to search for?"
	case intent.KindTellDefault:
		return "Which place should I tell you about?"
	case intent.KindSaveDefault:
		return "Which place should I save?"
	case intent.KindRecallDefault:
		return "Here's what you saved."
	case intent.KindOpenDefault:
		return "What should I open?"
	}
	return ""
}

func candidateResults(it intent.Intent) []ChatResult {
	if len(it.Candidates) == 0 {
		return []ChatResult{{Title: "No places found.", Kind: ResultText}}
	}
	results := make([]ChatResult, 0, len(it.Candidates))
	for _, c := range it.Candidates {
		results = append(results, ChatResult{
			Title: c.Name,
			Body:  c.Address,
			Kind:  ResultList,
		})
	}
	return results
}

func detailResult(it intent.Intent) ([]ChatResult, error) {
	d := it.SelectedDetails
	field := detailField(it.Kind)
	if d == nil {
		return nil, &FieldAbsentError{Field: field}
	}

	switch it.Kind {
	case intent.KindDetailsDirections:
		if d.Candidate.Address == "" {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: d.Candidate.Address, Kind: ResultMap}}, nil
	case intent.KindDetailsPhotos:
		if len(d.Photos) == 0 {
			return nil, &FieldAbsentError{Field: field}
		}
		results := make([]ChatResult, 0, len(d.Photos))
		for _, p := range d.Photos {
			results = append(results, ChatResult{Title: p.URL, Kind: ResultList})
		}
		return results, nil
	case intent.KindDetailsTips:
		if len(d.Tips) == 0 {
			return nil, &FieldAbsentError{Field: field}
		}
		results := make([]ChatResult, 0, len(d.Tips))
		for _, tip := range d.Tips {
			results = append(results, ChatResult{Title: tip.Text, Body: tip.Author, Kind: ResultList})
		}
		return results, nil
	case intent.KindDetailsInstagram:
		if d.Instagram == "" {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: d.Instagram, Kind: ResultText}}, nil
	case intent.KindDetailsOpenHours:
		if d.HoursText == "" {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: d.HoursText, Kind: ResultText}}, nil
	case intent.KindDetailsBusyHours:
		if d.PopularHours == "" {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: d.PopularHours, Kind: ResultText}}, nil
	case intent.KindDetailsPopularity:
		if d.Popularity == 0 {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: fmt.Sprintf("%.0f%% of people liked it", d.Popularity*100), Kind: ResultText}}, nil
	case intent.KindDetailsCost:
		if d.PriceTier < 1 || d.PriceTier > 4 {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: strings.Repeat("$", d.PriceTier), Kind: ResultText}}, nil
	case intent.KindDetailsMenu:
		if d.Menu == "" {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: d.Menu, Kind: ResultText}}, nil
	case intent.KindDetailsPhone:
		if d.Phone == "" {
			return nil, &FieldAbsentError{Field: field}
		}
		return []ChatResult{{Title: d.Phone, Kind: ResultText}}, nil
	}
	return nil, &FieldAbsentError{Field: field}
}

// detailField names the detail attribute a drill-down kind consumes.
func detailField(kind intent.Kind) string {
	switch kind {
	case intent.KindDetailsDirections:
		return "address"
	case intent.KindDetailsPhotos:
		return "photos"
	case intent.KindDetailsTips:
		return "tips"
	case intent.KindDetailsInstagram:
		return "instagram"
	case intent.KindDetailsOpenHours:
		return "hours"
	case intent.KindDetailsBusyHours:
		return "popular_hours"
	case intent.KindDetailsPopularity:
		return "popularity"
	case intent.KindDetailsCost:
		return "price"
	case intent.KindDetailsMenu:
		return "menu"
	case intent.KindDetailsPhone:
		return "phone"
	}
	return string(kind)
}
