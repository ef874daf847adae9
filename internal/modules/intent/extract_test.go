// README: Extractor tests (radius, price bounds, open-now, query rewrite).
package intent

import (
	"reflect"
	"testing"

	"roam/internal/tagger"
)

func TestExtractDefaults(t *testing.T) {
	params := Extract("find a coffee shop", nil)
	if params.Query != "find a coffee shop" {
		t.Errorf("Query = %q, want raw caption", params.Query)
	}
	if params.RadiusM != DefaultRadiusM {
		t.Errorf("RadiusM = %d, want %d", params.RadiusM, DefaultRadiusM)
	}
	if params.Sort != "relevance" {
		t.Errorf("Sort = %q, want relevance", params.Sort)
	}
	if params.Limit != DefaultResultLimit {
		t.Errorf("Limit = %d, want %d", params.Limit, DefaultResultLimit)
	}
	if params.MinPrice != 0 || params.MaxPrice != 0 || params.OpenNow {
		t.Errorf("unexpected filters: %+v", params)
	}
}

func TestExtractProximity(t *testing.T) {
	cases := []string{
		"find sushi nearby",
		"coffee near me",
		"anything close by?",
		"is there a bar around here",
	}
	for _, caption := range cases {
		params := Extract(caption, nil)
		if params.RadiusM != ProximityRadiusM {
			t.Errorf("Extract(%q).RadiusM = %d, want %d", caption, params.RadiusM, ProximityRadiusM)
		}
		if params.Sort != "distance" {
			t.Errorf("Extract(%q).Sort = %q, want distance", caption, params.Sort)
		}
	}
}

func TestExtractPriceBounds(t *testing.T) {
	cases := []struct {
		caption  string
		minPrice int
		maxPrice int
	}{
		{"a fancy dinner spot", 3, 0},
		{"somewhere expensive", 3, 0},
		{"a cheap lunch", 0, 2},
		// negation keeps the floor down and lowers the ceiling
		{"not that expensive please", 0, 2},
		{"not too expensive", 0, 2},
		{"something inexpensive", 0, 2},
		// fancy overrides the negation guard for the floor
		{"not expensive but fancy", 3, 2},
		{"cheap and fancy", 3, 2},
		{"a normal restaurant", 0, 0},
	}
	for _, tc := range cases {
		params := Extract(tc.caption, nil)
		if params.MinPrice != tc.minPrice {
			t.Errorf("Extract(%q).MinPrice = %d, want %d", tc.caption, params.MinPrice, tc.minPrice)
		}
		if params.MaxPrice != tc.maxPrice {
			t.Errorf("Extract(%q).MaxPrice = %d, want %d", tc.caption, params.MaxPrice, tc.maxPrice)
		}
	}
}

func TestExtractCombined(t *testing.T) {
	params := Extract("Find a cheap place that's open now nearby", nil)
	if params.RadiusM != ProximityRadiusM {
		t.Errorf("RadiusM = %d, want %d", params.RadiusM, ProximityRadiusM)
	}
	if params.MaxPrice != 2 {
		t.Errorf("MaxPrice = %d, want 2", params.MaxPrice)
	}
	if !params.OpenNow {
		t.Error("OpenNow = false, want true")
	}
}

func TestExtractQueryRewrite(t *testing.T) {
	tags := tagger.Tags{
		"spicy":    {tagger.TagTaste, tagger.TagAdjective},
		"ramen":    {tagger.TagCategory},
		"shinjuku": {tagger.TagPlace},
		"find":     {tagger.TagVerb},
		"me":       {tagger.TagOther},
	}
	params := Extract("find me spicy ramen in shinjuku", tags)

	// kept tokens preserve caption order, filler words drop out
	if params.Query != "spicy ramen shinjuku" {
		t.Errorf("Query = %q, want %q", params.Query, "spicy ramen shinjuku")
	}
	if !reflect.DeepEqual(params.Tastes, []string{"spicy"}) {
		t.Errorf("Tastes = %v, want [spicy]", params.Tastes)
	}
}

func TestExtractQueryRewriteNothingKept(t *testing.T) {
	tags := tagger.Tags{
		"find": {tagger.TagVerb},
		"me":   {tagger.TagOther},
	}
	params := Extract("find me", tags)
	if params.Query != "find me" {
		t.Errorf("Query = %q, want raw caption when rewrite keeps nothing", params.Query)
	}
}

// TestExtractIdempotent pins determinism: same inputs, same output, however
// many times it runs.
func TestExtractIdempotent(t *testing.T) {
	tags := tagger.Tags{
		"spicy": {tagger.TagTaste},
		"ramen": {tagger.TagCategory},
	}
	first := Extract("cheap spicy ramen near me, open now", tags)
	for i := 0; i < 5; i++ {
		next := Extract("cheap spicy ramen near me, open now", tags)
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %+v vs %+v", i, next, first)
		}
	}
}
