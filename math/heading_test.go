// math/heading_test.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import "testing"

func TestNormalizeHeading(t *testing.T) {
	cases := []struct{ h, want float32 }{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{720.5, 0.5},
	}
	for _, c := range cases {
		if got := NormalizeHeading(c.h); Abs(got-c.want) > 1e-4 {
			t.Errorf("NormalizeHeading(%g) = %g, expected %g", c.h, got, c.want)
		}
	}
}

func TestGreatCircleHeading(t *testing.T) {
	cases := []struct {
		from, to Point2LL
		want     float32
	}{
		{Point2LL{0, 0}, Point2LL{0, 1}, 0},    // north
		{Point2LL{0, 0}, Point2LL{1, 0}, 90},   // east along the equator
		{Point2LL{0, 0}, Point2LL{0, -1}, 180}, // south
		{Point2LL{0, 0}, Point2LL{-1, 0}, 270}, // west along the equator
	}
	for _, c := range cases {
		if got := GreatCircleHeading(c.from, c.to); HeadingDifference(got, c.want) > 0.01 {
			t.Errorf("GreatCircleHeading(%v, %v) = %g, expected %g", c.from, c.to, got, c.want)
		}
	}

	// Great-circle initial bearing from SFO towards JFK points well north
	// of due east.
	sfo, jfk := Point2LL{-122.375, 37.619}, Point2LL{-73.779, 40.640}
	h := GreatCircleHeading(sfo, jfk)
	if h < 60 || h > 80 {
		t.Errorf("SFO->JFK initial bearing = %g, expected roughly 70", h)
	}
}

func TestHeadingDifference(t *testing.T) {
	cases := []struct{ a, b, want float32 }{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{90, 270, 180},
		{45, 90, 45},
	}
	for _, c := range cases {
		if got := HeadingDifference(c.a, c.b); Abs(got-c.want) > 1e-4 {
			t.Errorf("HeadingDifference(%g, %g) = %g, expected %g", c.a, c.b, got, c.want)
		}
	}
}

func TestHeadingSignedTurn(t *testing.T) {
	cases := []struct{ cur, target, want float32 }{
		{0, 10, 10},
		{10, 0, -10},
		{350, 10, 20},
		{10, 350, -20},
		{180, 180, 0},
	}
	for _, c := range cases {
		if got := HeadingSignedTurn(c.cur, c.target); Abs(got-c.want) > 1e-4 {
			t.Errorf("HeadingSignedTurn(%g, %g) = %g, expected %g", c.cur, c.target, got, c.want)
		}
	}
}
