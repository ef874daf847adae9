// README: Lookup contract for the external place-search service.
package places

import (
	"context"

	"roam/internal/types"
)

// Field names one detail attribute requested from the lookup service.
type Field string

const (
	FieldDescription  Field = "description"
	FieldPhone        Field = "phone"
	FieldFax          Field = "fax"
	FieldEmail        Field = "email"
	FieldWebsite      Field = "website"
	FieldSocialLinks  Field = "social_links"
	FieldVerified     Field = "verified"
	FieldHours        Field = "hours"
	FieldPopularHours Field = "popular_hours"
	FieldRating       Field = "rating"
	FieldStats        Field = "stats"
	FieldPopularity   Field = "popularity"
	FieldPrice        Field = "price"
	FieldMenu         Field = "menu"
	FieldDateClosed   Field = "date_closed"
	FieldPhotos       Field = "photos"
	FieldTips         Field = "tips"
	FieldTastes       Field = "tastes"
	FieldFeatures     Field = "features"
)

// DefaultDetailFields is the fixed field set requested for every detail fetch.
var DefaultDetailFields = []Field{
	FieldDescription, FieldPhone, FieldFax, FieldEmail, FieldWebsite,
	FieldSocialLinks, FieldVerified, FieldHours, FieldPopularHours,
	FieldRating, FieldStats, FieldPopularity, FieldPrice, FieldMenu,
	FieldDateClosed, FieldPhotos, FieldTips, FieldTastes, FieldFeatures,
}

// Lookup is the opaque place-search backend. Implementations bound their own
// latency; callers treat every method as a suspension point.
type Lookup interface {
	Search(ctx context.Context, params SearchParams) ([]Candidate, error)
	Photos(ctx context.Context, placeID types.ID) ([]Photo, error)
	Tips(ctx context.Context, placeID types.ID) ([]Tip, error)
	Details(ctx context.Context, placeID types.ID, fields []Field) (Details, error)
	Autocomplete(ctx context.Context, text string, near types.Point) ([]Candidate, error)
}
