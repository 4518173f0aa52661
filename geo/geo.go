package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371e3

// Coordinate is a point in signed decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Site is a geofenced work location: a center point plus a proximity radius.
type Site struct {
	ID           uint
	Name         string
	Center       Coordinate
	RadiusMeters float64
}

// OutOfRangeError reports a point outside a site's proximity radius.
type OutOfRangeError struct {
	SiteName       string
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("geo: %.0f meters from %s (radius %.0f meters)",
		e.DistanceMeters, e.SiteName, e.RadiusMeters)
}

// DistanceMeters returns the haversine great-circle distance between two
// coordinates. Accurate to well under a meter at geofence scale (<50 km);
// no ellipsoid correction is applied.
func DistanceMeters(a, b Coordinate) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	dPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	dLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// FindNearestSite returns the first site in scan order whose distance from
// point is within its radius. When several sites qualify the first found
// wins, not the closest; callers that need true nearest-by-distance must
// sort the slice themselves. Changing this would change observable site
// assignment for overlapping fences.
func FindNearestSite(point Coordinate, sites []Site) (Site, bool) {
	for _, s := range sites {
		if DistanceMeters(point, s.Center) <= s.RadiusMeters {
			return s, true
		}
	}
	return Site{}, false
}

// AssertWithinSite returns an *OutOfRangeError when point lies outside the
// site's proximity radius. Used to gate clock-in.
func AssertWithinSite(point Coordinate, site Site) error {
	d := DistanceMeters(point, site.Center)
	if d > site.RadiusMeters {
		return &OutOfRangeError{
			SiteName:       site.Name,
			DistanceMeters: d,
			RadiusMeters:   site.RadiusMeters,
		}
	}
	return nil
}
