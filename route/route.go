// route/route.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package route represents a geographic flight path as a polyline with
// per-point elevations and answers queries of the form "where is the
// aircraft after it has traveled d meters along the path?"
package route

import (
	"errors"
	"sort"

	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/util"
)

var ErrMalformedRoute = errors.New("malformed route")

// Route is an ordered sequence of geographic points with elevations and
// precomputed cumulative arc lengths. It is immutable once constructed.
type Route struct {
	points    []math.Point2LL
	elevation []float32 // meters, parallel to points
	dist      []float32 // cumulative meters, dist[0] == 0, non-decreasing
}

// Sample is the route's ground truth at one arc-length distance: where the
// aircraft is, how high, and which way it points. Bearing and pitch are
// properties of the enclosing segment and so are constant across it.
type Sample struct {
	P        math.Point2LL
	Altitude float32 // meters
	Bearing  float32 // degrees, [0,360)
	Pitch    float32 // degrees, positive climbing
}

// New builds a Route from the given points and per-point elevations,
// computing great-circle distances between consecutive points. At least two
// points are required. If the elevation array is shorter than the points
// array, the missing entries default to 0 and a warning is accumulated on
// the ErrorLogger; extra entries are ignored.
func New(points []math.Point2LL, elevations []float32, e *util.ErrorLogger) (*Route, error) {
	return build(points, elevations, false, e)
}

// NewStrict is New but fails with ErrMalformedRoute when the elevation
// array does not cover every point.
func NewStrict(points []math.Point2LL, elevations []float32, e *util.ErrorLogger) (*Route, error) {
	return build(points, elevations, true, e)
}

func build(points []math.Point2LL, elevations []float32, strict bool, e *util.ErrorLogger) (*Route, error) {
	if len(points) < 2 {
		e.ErrorString("route has %d points; at least 2 are required", len(points))
		return nil, ErrMalformedRoute
	}

	elev := make([]float32, len(points))
	n := copy(elev, elevations)
	if n < len(points) {
		if strict {
			e.ErrorString("elevation array has %d entries for %d points", len(elevations), len(points))
			return nil, ErrMalformedRoute
		}
		if elevations != nil {
			e.ErrorString("elevation array has %d entries for %d points; missing entries default to 0",
				len(elevations), len(points))
		}
	}

	dist := make([]float32, len(points))
	for i := 1; i < len(points); i++ {
		dist[i] = dist[i-1] + math.DistanceLL(points[i-1], points[i])
	}

	return &Route{
		points:    append([]math.Point2LL(nil), points...),
		elevation: elev,
		dist:      dist,
	}, nil
}

// TotalLength returns the route's arc length in meters, 0 for an empty Route.
func (r *Route) TotalLength() float32 {
	if r == nil || len(r.dist) == 0 {
		return 0
	}
	return r.dist[len(r.dist)-1]
}

func (r *Route) NumPoints() int {
	if r == nil {
		return 0
	}
	return len(r.points)
}

// segment returns the index i of the segment [points[i], points[i+1]] that
// encloses the arc-length distance d: the last index whose cumulative
// distance does not exceed d, clamped to a valid segment. The rule is
// deterministic at breakpoints: a distance exactly at an interior
// breakpoint resolves to the segment starting there (ratio 0); at or past
// the end of the route the final segment is chosen.
func (r *Route) segment(d float32) int {
	// sort.Search returns the first index with dist[i] > d; the enclosing
	// segment starts one before it.
	i := sort.Search(len(r.dist), func(i int) bool { return r.dist[i] > d }) - 1
	return math.Clamp(i, 0, len(r.points)-2)
}

// Sample returns the route's position, altitude, bearing, and pitch at the
// given arc-length distance in meters, or nil if the Route has no data.
// Distances outside [0, TotalLength()] clamp to the route's endpoints;
// there is no extrapolation.
func (r *Route) Sample(d float32) *Sample {
	if r == nil || len(r.points) < 2 {
		return nil
	}

	i := r.segment(d)
	segLength := r.dist[i+1] - r.dist[i]

	var ratio float32
	if segLength > 0 {
		ratio = math.Clamp01((d - r.dist[i]) / segLength)
	}

	return &Sample{
		P:        math.Lerp2LL(ratio, r.points[i], r.points[i+1]),
		Altitude: math.Lerp(ratio, r.elevation[i], r.elevation[i+1]),
		Bearing:  math.GreatCircleHeading(r.points[i], r.points[i+1]),
		Pitch:    math.Degrees(math.Atan2(r.elevation[i+1]-r.elevation[i], segLength)),
	}
}
