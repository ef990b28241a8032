// math/heading.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// NormalizeHeading returns the heading expressed in [0,360).
func NormalizeHeading(h float32) float32 {
	if h < 0 {
		return 360 - NormalizeHeading(-h)
	}
	return Mod(h, 360)
}

// GreatCircleHeading returns the initial compass bearing in degrees for the
// great-circle path from |from| to |to|, in [0,360).
// https://www.movable-type.co.uk/scripts/latlong.html
func GreatCircleHeading(from Point2LL, to Point2LL) float32 {
	rad := func(d float32) float64 { return float64(d) / 180 * gomath.Pi }
	lat1, lon1 := rad(from[1]), rad(from[0])
	lat2, lon2 := rad(to[1]), rad(to[0])
	dlon := lon2 - lon1

	y := gomath.Sin(dlon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)
	return NormalizeHeading(Degrees(float32(gomath.Atan2(y, x))))
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float32, b float32) float32 {
	var d float32
	if a > b {
		d = a - b
	} else {
		d = b - a
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the signed degrees of the shorter turn from the
// heading cur to the heading target; positive is clockwise. First find the
// angle to rotate the target heading by so that it's aligned with 180
// degrees. This lets us not worry about the complexities of the wrap around
// at 0/360..
func HeadingSignedTurn(cur, target float32) float32 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot) // w.r.t. 180 target
}
