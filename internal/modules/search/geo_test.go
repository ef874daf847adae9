// README: Geo helper tests (haversine sanity + stable insertion sort).
package search

import (
	"math"
	"testing"

	"roam/internal/types"
)

func TestHaversineKnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"same point", 25.0330, 121.5654, 25.0330, 121.5654, 0, 0.001},
		{"taipei 101 to main station", 25.0330, 121.5654, 25.0478, 121.5170, 5.2, 0.5},
		{"taipei to tokyo", 25.0330, 121.5654, 35.6762, 139.6503, 2100, 60},
	}
	for _, tc := range cases {
		got := haversineKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
		if math.Abs(got-tc.wantKm) > tc.tolKm {
			t.Errorf("%s: haversineKm = %.2f, want %.2f (+/- %.2f)", tc.name, got, tc.wantKm, tc.tolKm)
		}
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := types.Point{Lat: 25.0330, Lng: 121.5654}
	b := types.Point{Lat: 24.1477, Lng: 120.6736}
	if d1, d2 := distanceKm(a, b), distanceKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %.9f vs %.9f", d1, d2)
	}
}

func TestSortByDistanceStable(t *testing.T) {
	type item struct {
		name string
		d    float64
	}
	items := []item{
		{"c", 3}, {"a1", 1}, {"b", 2}, {"a2", 1}, {"a3", 1},
	}
	sortByDistance(items, func(i item) float64 { return i.d })

	want := []string{"a1", "a2", "a3", "b", "c"}
	for i, name := range want {
		if items[i].name != name {
			t.Errorf("position %d = %s, want %s", i, items[i].name, name)
		}
	}
}
