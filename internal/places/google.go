// README: Google Places implementation of the Lookup contract.
package places

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"

	"roam/internal/types"
)

const photoURLFormat = "https://maps.googleapis.com/maps/api/place/photo?maxwidth=800&photo_reference=%s"

// GoogleLookup implements Lookup over the Google Places API.
type GoogleLookup struct {
	client *maps.Client
}

// NewGoogleLookup creates a GoogleLookup with the given API key.
func NewGoogleLookup(apiKey string) (*GoogleLookup, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleLookup{client: client}, nil
}

// Search issues a text search built from the structured parameters.
func (g *GoogleLookup) Search(ctx context.Context, params SearchParams) ([]Candidate, error) {
	query := params.Query
	if params.Near != "" && params.NearPoint == nil {
		query = fmt.Sprintf("%s near %s", query, params.Near)
	}

	r := &maps.TextSearchRequest{
		Query:    query,
		OpenNow:  params.OpenNow,
		MinPrice: priceLevel(params.MinPrice),
		MaxPrice: priceLevel(params.MaxPrice),
	}
	if params.NearPoint != nil {
		r.Location = &maps.LatLng{Lat: params.NearPoint.Lat, Lng: params.NearPoint.Lng}
		if params.RadiusM > 0 {
			r.Radius = uint(params.RadiusM)
		}
	}

	resp, err := g.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > len(resp.Results) {
		limit = len(resp.Results)
	}

	candidates := make([]Candidate, 0, limit)
	for _, result := range resp.Results[:limit] {
		candidates = append(candidates, Candidate{
			PlaceID:    types.ID(result.PlaceID),
			Name:       result.Name,
			Categories: result.Types,
			Location: types.Point{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
			Address: result.FormattedAddress,
		}.NewRef())
	}
	return candidates, nil
}

// Photos fetches the photo list for a place.
func (g *GoogleLookup) Photos(ctx context.Context, placeID types.ID) ([]Photo, error) {
	resp, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: string(placeID),
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMaskPhotos},
	})
	if err != nil {
		return nil, fmt.Errorf("place photos error: %w", err)
	}
	return convertPhotos(resp.Photos), nil
}

// Tips fetches user reviews for a place.
func (g *GoogleLookup) Tips(ctx context.Context, placeID types.ID) ([]Tip, error) {
	resp, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: string(placeID),
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMaskReviews},
	})
	if err != nil {
		return nil, fmt.Errorf("place tips error: %w", err)
	}
	return convertTips(resp.Reviews), nil
}

// Details fetches one enriched record. Fields with no Google Places
// counterpart (fax, email, menu, tastes, popularity) stay empty; the caller
// treats them as absent data, not as an error.
func (g *GoogleLookup) Details(ctx context.Context, placeID types.ID, fields []Field) (Details, error) {
	resp, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: string(placeID),
		Fields:  fieldMasks(fields),
	})
	if err != nil {
		return Details{}, fmt.Errorf("place details error: %w", err)
	}

	d := Details{
		Candidate: Candidate{
			PlaceID:    placeID,
			Name:       resp.Name,
			Categories: resp.Types,
			Address:    resp.FormattedAddress,
			Location: types.Point{
				Lat: resp.Geometry.Location.Lat,
				Lng: resp.Geometry.Location.Lng,
			},
		}.NewRef(),
		Phone:       resp.FormattedPhoneNumber,
		Website:     resp.Website,
		Rating:      float64(resp.Rating),
		RatingCount: resp.UserRatingsTotal,
		PriceTier:   resp.PriceLevel,
		Photos:      convertPhotos(resp.Photos),
		Tips:        convertTips(resp.Reviews),
	}
	if resp.OpeningHours != nil {
		open := resp.OpeningHours.OpenNow
		d.OpenNow = open
		for _, line := range resp.OpeningHours.WeekdayText {
			if d.HoursText != "" {
				d.HoursText += "\n"
			}
			d.HoursText += line
		}
	}
	return d, nil
}

// Autocomplete resolves partial text into place candidates near a location.
func (g *GoogleLookup) Autocomplete(ctx context.Context, text string, near types.Point) ([]Candidate, error) {
	r := &maps.QueryAutocompleteRequest{Input: text}
	if !near.IsZero() {
		r.Location = &maps.LatLng{Lat: near.Lat, Lng: near.Lng}
	}
	resp, err := g.client.QueryAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("autocomplete error: %w", err)
	}

	candidates := make([]Candidate, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		if p.PlaceID == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			PlaceID:    types.ID(p.PlaceID),
			Name:       p.Description,
			Categories: p.Types,
		}.NewRef())
	}
	return candidates, nil
}

// fieldMasks translates lookup fields into Google Places field masks,
// skipping fields the API does not expose.
func fieldMasks(fields []Field) []maps.PlaceDetailsFieldMask {
	masks := []maps.PlaceDetailsFieldMask{
		maps.PlaceDetailsFieldMaskName,
		maps.PlaceDetailsFieldMaskPlaceID,
		maps.PlaceDetailsFieldMaskFormattedAddress,
		maps.PlaceDetailsFieldMaskGeometry,
		maps.PlaceDetailsFieldMaskTypes,
	}
	for _, f := range fields {
		switch f {
		case FieldPhone:
			masks = append(masks, maps.PlaceDetailsFieldMaskFormattedPhoneNumber)
		case FieldWebsite:
			masks = append(masks, maps.PlaceDetailsFieldMaskWebsite)
		case FieldHours:
			masks = append(masks, maps.PlaceDetailsFieldMaskOpeningHours)
		case FieldRating, FieldStats:
			masks = append(masks, maps.PlaceDetailsFieldMaskRatings, maps.PlaceDetailsFieldMaskUserRatingsTotal)
		case FieldPrice:
			masks = append(masks, maps.PlaceDetailsFieldMaskPriceLevel)
		case FieldPhotos:
			masks = append(masks, maps.PlaceDetailsFieldMaskPhotos)
		case FieldTips:
			masks = append(masks, maps.PlaceDetailsFieldMaskReviews)
		}
	}
	return masks
}

func convertPhotos(photos []maps.Photo) []Photo {
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, Photo{
			ID:     types.ID(p.PhotoReference),
			URL:    fmt.Sprintf(photoURLFormat, p.PhotoReference),
			Width:  p.Width,
			Height: p.Height,
		})
	}
	return out
}

func convertTips(reviews []maps.PlaceReview) []Tip {
	out := make([]Tip, 0, len(reviews))
	for i, rv := range reviews {
		out = append(out, Tip{
			ID:        types.ID(strconv.Itoa(i)),
			Text:      rv.Text,
			Author:    rv.AuthorName,
			CreatedAt: time.Unix(int64(rv.Time), 0),
		})
	}
	return out
}

func priceLevel(n int) maps.PriceLevel {
	switch n {
	case 1:
		return maps.PriceLevelInexpensive
	case 2:
		return maps.PriceLevelModerate
	case 3:
		return maps.PriceLevelExpensive
	case 4:
		return maps.PriceLevelVeryExpensive
	default:
		return ""
	}
}
