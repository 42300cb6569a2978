package kernel

import (
	"fmt"

	"tutam/internal/pkg/errs"
)

const (
	// MinLatitude and MaxLatitude bound the valid latitude range in degrees.
	MinLatitude = -90.0
	MaxLatitude = 90.0

	// MinLongitude and MaxLongitude bound the valid longitude range in degrees.
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrGeoLocationIsNotConstructed indicates that a GeoLocation was not created
// through NewGeoLocation. The zero value of GeoLocation is invalid.
var ErrGeoLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"GeoLocation must be created via NewGeoLocation",
)

// GeoLocation is a value object holding a WGS84 coordinate pair.
//
// Persistence and the domain model speak latitude-first; the route solver's wire
// format speaks longitude-first. LonLat performs that swap in exactly one place,
// so no other code ever reorders the pair.
//
// GeoLocation is immutable and compared by value.
type GeoLocation struct {
	latitude  float64
	longitude float64

	// isSet distinguishes a constructed location from the zero value.
	isSet bool
}

// NewGeoLocation creates a validated GeoLocation from latitude and longitude degrees.
//
// Returns:
//   - GeoLocation: the created location if both coordinates are in range
//   - error: ValueIsOutOfRangeError naming the offending coordinate otherwise
func NewGeoLocation(latitude, longitude float64) (GeoLocation, error) {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return GeoLocation{}, errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	if longitude < MinLongitude || longitude > MaxLongitude {
		return GeoLocation{}, errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	return GeoLocation{
		latitude:  latitude,
		longitude: longitude,
		isSet:     true,
	}, nil
}

// Latitude returns the latitude in degrees.
func (l GeoLocation) Latitude() float64 {
	return l.latitude
}

// Longitude returns the longitude in degrees.
func (l GeoLocation) Longitude() float64 {
	return l.longitude
}

// LonLat returns the coordinate pair in [longitude, latitude] order,
// the convention used by the route-optimization wire format.
func (l GeoLocation) LonLat() [2]float64 {
	return [2]float64{l.longitude, l.latitude}
}

// IsEqual compares two locations by exact coordinate values.
func (l GeoLocation) IsEqual(other GeoLocation) bool {
	return l.latitude == other.latitude && l.longitude == other.longitude
}

// Validate checks that the location was created via NewGeoLocation.
func (l GeoLocation) Validate() error {
	if !l.isSet {
		return ErrGeoLocationIsNotConstructed
	}
	return nil
}

// String returns the location as "lat,lon" for logging.
func (l GeoLocation) String() string {
	return fmt.Sprintf("%g,%g", l.latitude, l.longitude)
}
