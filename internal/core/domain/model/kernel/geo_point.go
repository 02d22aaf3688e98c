package kernel

import (
	"errors"
	"fmt"
	"math"

	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// EarthRadiusKm is the IUGG mean Earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0088
)

// ErrGeoPointIsNotConstructed is returned when validating a zero-value GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is an immutable WGS84 coordinate pair. It is what the geocoder
// returns for a delivery address and what a restaurant stores once its own
// address has been resolved.
//
// Example:
//
//	user, err := kernel.NewGeoPoint(44.8, 20.4)
//	restaurant, _ := kernel.NewGeoPoint(44.81, 20.41)
//	km := user.DistanceKm(restaurant) // ~1.36
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates and reports every violation at once.
//
// Parameters:
//   - latitude: degrees in [-90, 90]
//   - longitude: degrees in [-180, 180]
//
// Returns:
//   - GeoPoint: a valid point
//   - error: joined *errs.ValueIsOutOfRangeError values for each bad coordinate
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// DistanceKm returns the haversine great-circle distance to other in kilometres.
// The result is symmetric and zero for identical points.
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	const degToRad = math.Pi / 180

	dLat := (other.latitude - p.latitude) * degToRad
	dLng := (other.longitude - p.longitude) * degToRad
	lat1 := p.latitude * degToRad
	lat2 := other.latitude * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

func (p GeoPoint) Validate() error {
	if err := p.guard.Validate(ErrGeoPointIsNotConstructed); err != nil {
		return err
	}
	return errors.Join(validateLatitude(p.latitude), validateLongitude(p.longitude))
}

func (p *GeoPoint) setLatitude(v float64) error {
	if err := validateLatitude(v); err != nil {
		return err
	}
	p.latitude = v
	return nil
}

func (p *GeoPoint) setLongitude(v float64) error {
	if err := validateLongitude(v); err != nil {
		return err
	}
	p.longitude = v
	return nil
}

func validateLatitude(v float64) error {
	if math.IsNaN(v) || v < LatitudeMin || v > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", v, LatitudeMin, LatitudeMax)
	}
	return nil
}

func validateLongitude(v float64) error {
	if math.IsNaN(v) || v < LongitudeMin || v > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", v, LongitudeMin, LongitudeMax)
	}
	return nil
}
