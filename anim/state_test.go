// anim/state_test.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package anim

import (
	"testing"

	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/route"
)

func TestUpdateSnapsWithLargeDt(t *testing.T) {
	s := NewState(&route.Sample{P: math.Point2LL{0, 0}, Altitude: 0, Bearing: 0})
	target := &route.Sample{P: math.Point2LL{1, 2}, Altitude: 800, Bearing: 45, Pitch: 3}

	// 2000ms makes both smoothing factors clamp to 1, so the state snaps
	// exactly to the target in a single update.
	s.Update(target, 2000)

	if s.P != target.P {
		t.Errorf("position %v did not snap to %v", s.P, target.P)
	}
	if s.Altitude != target.Altitude {
		t.Errorf("altitude %g did not snap to %g", s.Altitude, target.Altitude)
	}
	if math.HeadingDifference(s.Bearing, target.Bearing) > 1e-3 {
		t.Errorf("bearing %g did not snap to %g", s.Bearing, target.Bearing)
	}
	if math.Abs(s.Pitch-target.Pitch) > 1e-4 {
		t.Errorf("pitch %g did not snap to %g", s.Pitch, target.Pitch)
	}
}

func TestUpdateTinyDtIsNoOp(t *testing.T) {
	start := &route.Sample{P: math.Point2LL{-122.4, 37.6}, Altitude: 100, Bearing: 270, Pitch: 2}
	s := NewState(start)
	target := &route.Sample{P: math.Point2LL{-120, 39}, Altitude: 1500, Bearing: 90, Pitch: -2}

	s.Update(target, 1e-4)

	if math.DistanceLL(s.P, start.P) > 1 {
		t.Errorf("position moved %g m for a vanishing dt", math.DistanceLL(s.P, start.P))
	}
	if math.Abs(s.Altitude-start.Altitude) > 0.01 {
		t.Errorf("altitude moved to %g for a vanishing dt", s.Altitude)
	}
	if math.HeadingDifference(s.Bearing, start.Bearing) > 0.01 {
		t.Errorf("bearing moved to %g for a vanishing dt", s.Bearing)
	}
}

func TestUpdateConvergence(t *testing.T) {
	s := NewState(&route.Sample{})
	target := &route.Sample{P: math.Point2LL{1, 1}, Altitude: 1000, Bearing: 90, Pitch: 5}

	// Repeated small steps approach the target monotonically.
	var lastErr float32 = 1e30
	for j := 0; j < 300; j++ {
		s.Update(target, 16)
		err := math.Abs(s.Altitude - target.Altitude)
		if err > lastErr+1e-3 {
			t.Fatalf("altitude error increased: %g then %g", lastErr, err)
		}
		lastErr = err
	}
	if lastErr > 10 {
		t.Errorf("altitude still %g m from the target after 300 frames", lastErr)
	}
}

func TestGearTransition(t *testing.T) {
	s := &State{}

	var lastFront float32 = -1
	for alt := float32(0); alt <= 60; alt += 2 {
		s.Altitude = alt
		s.deriveEffects()

		if s.FrontGearAngle < lastFront {
			t.Errorf("front gear angle not monotonic at altitude %g: %g then %g",
				alt, lastFront, s.FrontGearAngle)
		}
		lastFront = s.FrontGearAngle

		if math.Abs(s.FrontGearAngle+s.RearGearAngle) > 1e-4 {
			t.Errorf("gear angles not mirrored at altitude %g: %g / %g",
				alt, s.FrontGearAngle, s.RearGearAngle)
		}
	}

	s.Altitude = 0
	s.deriveEffects()
	if s.FrontGearAngle != 0 || s.RearGearAngle != 0 {
		t.Errorf("gear not fully extended on the ground: %g / %g", s.FrontGearAngle, s.RearGearAngle)
	}

	for _, alt := range []float32{50, 75, 10000} {
		s.Altitude = alt
		s.deriveEffects()
		if s.FrontGearAngle != 90 || s.RearGearAngle != -90 {
			t.Errorf("gear not fully retracted at altitude %g: %g / %g",
				alt, s.FrontGearAngle, s.RearGearAngle)
		}
	}
}

func TestOnGroundEffects(t *testing.T) {
	s := NewState(&route.Sample{})
	if s.LightTaxiPhase != 1 {
		t.Errorf("taxi lights %g on the ground, expected 1", s.LightTaxiPhase)
	}
	if s.Roll != 0 {
		t.Errorf("roll %g on the ground, expected 0", s.Roll)
	}
	if s.FrontGearAngle != 0 {
		t.Errorf("gear %g on the ground, expected 0", s.FrontGearAngle)
	}
}

func TestLightPhases(t *testing.T) {
	s := &State{}
	for _, tm := range []float32{0, 0.1, 0.25, 1, 3.7, 100} {
		s.AnimTime = tm
		s.deriveEffects()

		if s.LightPhase < 0.75 || s.LightPhase > 1 {
			t.Errorf("steady light %g at t=%g, outside [0.75,1]", s.LightPhase, tm)
		}
		if s.LightStrobePhase < 0 || s.LightStrobePhase > 1 {
			t.Errorf("strobe %g at t=%g, outside [0,1]", s.LightStrobePhase, tm)
		}
	}

	s.Altitude = taxiAltWindow / 2
	s.deriveEffects()
	if math.Abs(s.LightTaxiPhase-0.5) > 1e-4 {
		t.Errorf("taxi lights %g halfway up the window, expected 0.5", s.LightTaxiPhase)
	}
	s.Altitude = taxiAltWindow * 2
	s.deriveEffects()
	if s.LightTaxiPhase != 0 {
		t.Errorf("taxi lights %g above the window, expected 0", s.LightTaxiPhase)
	}
}

func TestBankingGatedByAltitude(t *testing.T) {
	s := &State{AnimTime: bankPeriod / 4} // sin() at its peak

	s.Altitude = bankAltFloor - 1
	s.deriveEffects()
	if s.Roll != 0 {
		t.Errorf("banking below the floor: roll %g", s.Roll)
	}

	s.Altitude = bankAltFloor + bankAltWindow/2
	s.deriveEffects()
	if math.Abs(s.Roll-bankAmplitude/2) > 0.01 {
		t.Errorf("roll %g halfway up the window, expected %g", s.Roll, float32(bankAmplitude)/2)
	}

	s.Altitude = bankAltFloor + bankAltWindow
	s.deriveEffects()
	if math.Abs(s.Roll-bankAmplitude) > 0.01 {
		t.Errorf("roll %g at full window, expected %g", s.Roll, float32(bankAmplitude))
	}
}

func TestAnimTimeMonotonic(t *testing.T) {
	s := NewState(&route.Sample{})
	var last float32
	for i := 0; i < 100; i++ {
		s.Update(nil, float32(i%17)+1)
		if s.AnimTime <= last {
			t.Fatalf("AnimTime not monotonic: %g then %g", last, s.AnimTime)
		}
		last = s.AnimTime
	}
}
