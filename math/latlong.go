// math/latlong.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

// Meters per degree of latitude; longitude degrees shrink with cos(latitude).
const MetersPerLatitude = 111319.5

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float32

func (p Point2LL) Longitude() float32 {
	return p[0]
}

func (p Point2LL) Latitude() float32 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

func Add2LL(a Point2LL, b Point2LL) Point2LL {
	return Point2LL{a[0] + b[0], a[1] + b[1]}
}

// Lerp2LL blends between the points a and b component-wise; the factor x is
// clamped to [0,1].
func Lerp2LL(x float32, a Point2LL, b Point2LL) Point2LL {
	return Point2LL{Lerp(x, a[0], b[0]), Lerp(x, a[1], b[1])}
}

// DistanceLL returns the great-circle distance in meters between two points
// via the haversine formula.
// https://www.movable-type.co.uk/scripts/latlong.html
func DistanceLL(a Point2LL, b Point2LL) float32 {
	const R = 6371000 // metres
	rad := func(d float64) float64 { return d / 180 * gomath.Pi }
	lat1, lon1 := rad(float64(a[1])), rad(float64(a[0]))
	lat2, lon2 := rad(float64(b[1])), rad(float64(b[0]))
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))

	return float32(R * c)
}

// Offset2LL displaces p by the given distances in meters east and north,
// using a flat-earth approximation that is plenty accurate at the few
// hundred meter scale of camera offsets.
func Offset2LL(p Point2LL, eastMeters, northMeters float32) Point2LL {
	dlat := northMeters / MetersPerLatitude
	mlon := MetersPerLatitude * Cos(Radians(p[1]))
	var dlon float32
	if mlon > 0 {
		dlon = eastMeters / mlon
	}
	return Point2LL{p[0] + dlon, p[1] + dlat}
}
