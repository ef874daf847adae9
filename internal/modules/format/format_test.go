// README: Formatter tests (defaults, candidate lists, drill-down gating).
package format

import (
	"errors"
	"testing"

	"roam/internal/modules/intent"
	"roam/internal/places"
	"roam/internal/types"
)

func TestComposeDefaults(t *testing.T) {
	cases := []struct {
		kind  intent.Kind
		title string
	}{
		{intent.KindSearchDefault, "What would you like to search for?"},
		{intent.KindTellDefault, "Which place should I tell you about?"},
		{intent.KindSaveDefault, "Which place should I save?"},
		{intent.KindRecallDefault, "Here's what you saved."},
		{intent.KindOpenDefault, "What should I open?"},
	}
	for _, tc := range cases {
		results, err := Compose(intent.New("x", tc.kind))
		if err != nil {
			t.Fatalf("Compose(%s): %v", tc.kind, err)
		}
		if len(results) != 1 || results[0].Title != tc.title || results[0].Kind != ResultText {
			t.Errorf("Compose(%s) = %+v, want prompt %q", tc.kind, results, tc.title)
		}
	}
}

func TestComposeCandidates(t *testing.T) {
	it := intent.New("find ramen", intent.KindSearchQuery).WithCandidates([]places.Candidate{
		{PlaceID: "p1", Name: "Ichiran", Address: "1-chome"},
		{PlaceID: "p2", Name: "Afuri", Address: "2-chome"},
	})
	results, err := Compose(it)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Title != "Ichiran" || results[0].Body != "1-chome" || results[0].Kind != ResultList {
		t.Errorf("first result = %+v", results[0])
	}
}

func TestComposeNoCandidates(t *testing.T) {
	results, err := Compose(intent.New("find ramen", intent.KindSearchQuery))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(results) != 1 || results[0].Title != "No places found." {
		t.Errorf("results = %+v, want the empty-search message", results)
	}
}

func TestComposeDrillDowns(t *testing.T) {
	full := places.Details{
		Candidate: places.Candidate{
			PlaceID: types.ID("p1"),
			Name:    "Ichiran",
			Address: "1-chome",
		},
		Phone:        "+81 3 1234",
		Instagram:    "@ichiran",
		HoursText:    "10:00-22:00",
		PopularHours: "lunch and late evening",
		Popularity:   0.93,
		PriceTier:    2,
		Menu:         "tonkotsu ramen",
		Photos:       []places.Photo{{URL: "https://example.com/a.jpg"}},
		Tips:         []places.Tip{{Text: "Order the extra noodles.", Author: "kei"}},
	}

	cases := []struct {
		kind  intent.Kind
		title string
		rkind ResultKind
	}{
		{intent.KindDetailsDirections, "1-chome", ResultMap},
		{intent.KindDetailsPhotos, "https://example.com/a.jpg", ResultList},
		{intent.KindDetailsTips, "Order the extra noodles.", ResultList},
		{intent.KindDetailsInstagram, "@ichiran", ResultText},
		{intent.KindDetailsOpenHours, "10:00-22:00", ResultText},
		{intent.KindDetailsBusyHours, "lunch and late evening", ResultText},
		{intent.KindDetailsPopularity, "93% of people liked it", ResultText},
		{intent.KindDetailsCost, "$$", ResultText},
		{intent.KindDetailsMenu, "tonkotsu ramen", ResultText},
		{intent.KindDetailsPhone, "+81 3 1234", ResultText},
	}
	for _, tc := range cases {
		it := intent.New("x", tc.kind).WithSelectedDetails(full)
		results, err := Compose(it)
		if err != nil {
			t.Fatalf("Compose(%s): %v", tc.kind, err)
		}
		if len(results) == 0 || results[0].Title != tc.title || results[0].Kind != tc.rkind {
			t.Errorf("Compose(%s) = %+v, want title %q kind %s", tc.kind, results, tc.title, tc.rkind)
		}
	}
}

// TestComposeFieldAbsent verifies every drill-down fails loudly, naming its
// field, when the data is missing.
func TestComposeFieldAbsent(t *testing.T) {
	empty := places.Details{Candidate: places.Candidate{PlaceID: "p1", Name: "Ichiran"}}

	cases := []struct {
		kind  intent.Kind
		field string
	}{
		{intent.KindDetailsDirections, "address"},
		{intent.KindDetailsPhotos, "photos"},
		{intent.KindDetailsTips, "tips"},
		{intent.KindDetailsInstagram, "instagram"},
		{intent.KindDetailsOpenHours, "hours"},
		{intent.KindDetailsBusyHours, "popular_hours"},
		{intent.KindDetailsPopularity, "popularity"},
		{intent.KindDetailsCost, "price"},
		{intent.KindDetailsMenu, "menu"},
		{intent.KindDetailsPhone, "phone"},
	}
	for _, tc := range cases {
		it := intent.New("x", tc.kind).WithSelectedDetails(empty)
		_, err := Compose(it)
		var absent *FieldAbsentError
		if !errors.As(err, &absent) {
			t.Fatalf("Compose(%s) err = %v, want FieldAbsentError", tc.kind, err)
		}
		if absent.Field != tc.field {
			t.Errorf("Compose(%s) field = %q, want %q", tc.kind, absent.Field, tc.field)
		}
	}
}

func TestComposeDrillDownWithoutDetails(t *testing.T) {
	_, err := Compose(intent.New("show me photos", intent.KindDetailsPhotos))
	var absent *FieldAbsentError
	if !errors.As(err, &absent) {
		t.Fatalf("err = %v, want FieldAbsentError", err)
	}
}

func TestComposeShareEchoesCaption(t *testing.T) {
	results, err := Compose(intent.New("  1-chome  ", intent.KindShareResult))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(results) != 1 || results[0].Title != "1-chome" {
		t.Errorf("results = %+v, want the trimmed caption echoed", results)
	}
}

func TestComposeUnsupported(t *testing.T) {
	results, err := Compose(intent.New("gibberish", intent.KindUnsupported))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(results) != 1 || results[0].Kind != ResultText {
		t.Errorf("results = %+v", results)
	}
}
