package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceMetersKnownPoints(t *testing.T) {
	sf := Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	la := Coordinate{Latitude: 34.0522, Longitude: -118.2437}

	d := DistanceMeters(sf, la)
	if d < 557000 || d > 561000 {
		t.Fatalf("SF-LA distance = %.0f m, want ~559 km", d)
	}

	if got := DistanceMeters(sf, sf); got != 0 {
		t.Fatalf("zero distance = %v, want 0", got)
	}

	if a, b := DistanceMeters(sf, la), DistanceMeters(la, sf); math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceMetersGeofenceScale(t *testing.T) {
	// ~100.5 m east along the equator.
	center := Coordinate{Latitude: 0, Longitude: 0}
	point := Coordinate{Latitude: 0, Longitude: 100.5 / 111194.93}

	d := DistanceMeters(center, point)
	if math.Abs(d-100.5) > 0.1 {
		t.Fatalf("distance = %v, want 100.5 +/- 0.1", d)
	}
}

func TestFindNearestSiteFirstMatchWins(t *testing.T) {
	point := Coordinate{Latitude: 0, Longitude: 0}
	far := Site{ID: 1, Name: "far", Center: Coordinate{Latitude: 1, Longitude: 1}, RadiusMeters: 100}
	outer := Site{ID: 2, Name: "outer", Center: Coordinate{Latitude: 0, Longitude: 50.0 / 111194.93}, RadiusMeters: 200}
	inner := Site{ID: 3, Name: "inner", Center: point, RadiusMeters: 100}

	// outer is listed first and qualifies, so it wins even though inner is
	// strictly closer.
	got, ok := FindNearestSite(point, []Site{far, outer, inner})
	if !ok {
		t.Fatal("expected a site match")
	}
	if got.ID != outer.ID {
		t.Fatalf("matched site %d, want %d (first in scan order)", got.ID, outer.ID)
	}

	_, ok = FindNearestSite(Coordinate{Latitude: 10, Longitude: 10}, []Site{far, outer, inner})
	if ok {
		t.Fatal("expected no match far from every site")
	}
}

func TestAssertWithinSite(t *testing.T) {
	site := Site{
		ID:           1,
		Name:         "Downtown Office Building",
		Center:       Coordinate{Latitude: 0, Longitude: 0},
		RadiusMeters: 100,
	}

	inside := Coordinate{Latitude: 0, Longitude: 99.0 / 111194.93}
	if err := AssertWithinSite(inside, site); err != nil {
		t.Fatalf("expected point inside radius to pass, got %v", err)
	}

	outside := Coordinate{Latitude: 0, Longitude: 100.5 / 111194.93}
	err := AssertWithinSite(outside, site)
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected *OutOfRangeError, got %T", err)
	}
	if math.Abs(oor.DistanceMeters-100.5) > 0.1 {
		t.Fatalf("reported distance = %v, want ~100.5", oor.DistanceMeters)
	}
	if oor.RadiusMeters != 100 {
		t.Fatalf("reported radius = %v, want 100", oor.RadiusMeters)
	}
}
