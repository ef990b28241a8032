// anim/state.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package anim holds the smoothed flight state of the animated aircraft:
// each frame it exponentially blends toward a freshly sampled route target
// and derives the mechanical and lighting effects from the result.
package anim

import (
	"log/slog"

	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/route"
)

// Smoothing factors per millisecond of frame time. Translation deliberately
// responds faster than rotation so that the airframe feels heavy as it
// turns. These are feel parameters, not physics.
const (
	positionSmoothing = 0.002
	rotationSmoothing = 0.0008
)

const (
	// Landing gear retracts fully over the first gearAltWindow meters of
	// altitude.
	gearAltWindow = 50

	// Taxi lights fade out over the first taxiAltWindow meters.
	taxiAltWindow = 100

	// Banking starts above bankAltFloor and reaches full amplitude at
	// bankAltFloor+bankAltWindow.
	bankAltFloor  = 50
	bankAltWindow = 100

	bankAmplitude = 8  // degrees
	bankPeriod    = 12 // seconds

	steadyLightPeriod = 2   // seconds
	strobeLightPeriod = 0.5 // seconds
)

// State is the live, smoothed kinematic and visual state of the aircraft.
// There is exactly one per running animation; the driver mutates it once
// per frame via Update.
type State struct {
	P        math.Point2LL
	Altitude float32 // meters
	Bearing  float32 // degrees, [0,360)
	Pitch    float32 // degrees
	Roll     float32 // degrees, banking

	FrontGearAngle float32 // degrees, 0 extended .. 90 retracted
	RearGearAngle  float32 // degrees, 0 extended .. -90 retracted

	LightPhase       float32 // steady beacon glow, [0.75,1]
	LightStrobePhase float32 // strobe, [0,1]
	LightTaxiPhase   float32 // taxi lights, 1 on ground fading to 0

	AnimTime float32 // seconds since the State was created
}

// NewState returns a State resting at the given route sample, on the
// ground with gear extended and lights in their time-zero phases.
func NewState(target *route.Sample) *State {
	s := &State{}
	if target != nil {
		s.P = target.P
		s.Altitude = target.Altitude
		s.Bearing = target.Bearing
		s.Pitch = target.Pitch
	}
	s.deriveEffects()
	return s
}

// Update advances the state by dtMs milliseconds, blending position and
// orientation toward the target sample and then rederiving the secondary
// effects from the smoothed result. It is total over finite inputs; no
// target leaves the state unchanged apart from AnimTime.
func (s *State) Update(target *route.Sample, dtMs float32) {
	s.AnimTime += dtMs / 1000

	if target != nil {
		posFactor := math.Clamp01(dtMs * positionSmoothing)
		rotFactor := math.Clamp01(dtMs * rotationSmoothing)

		s.P = math.Lerp2LL(posFactor, s.P, target.P)
		s.Altitude = math.Lerp(posFactor, s.Altitude, target.Altitude)

		// Blend the bearing along the shorter way around the compass so
		// that a 359->1 degree target doesn't spin the aircraft.
		turn := math.HeadingSignedTurn(s.Bearing, target.Bearing)
		s.Bearing = math.NormalizeHeading(s.Bearing + rotFactor*turn)
		s.Pitch = math.Lerp(rotFactor, s.Pitch, target.Pitch)
	}

	s.deriveEffects()
}

// deriveEffects computes gear, light, and banking state from the smoothed
// altitude and the elapsed animation time. At altitude 0 everything
// resolves to its on-ground value: gear extended, taxi lights on, wings
// level.
func (s *State) deriveEffects() {
	gear := math.Clamp01(s.Altitude / gearAltWindow)
	s.FrontGearAngle = math.Lerp(gear, 0, 90)
	s.RearGearAngle = math.Lerp(gear, 0, -90)

	s.LightPhase = math.Lerp(math.SinPhase(s.AnimTime, steadyLightPeriod), 0.75, 1)
	s.LightStrobePhase = math.SinPhase(s.AnimTime, strobeLightPeriod)
	s.LightTaxiPhase = 1 - math.Clamp01(s.Altitude/taxiAltWindow)

	bank := math.Clamp01((s.Altitude - bankAltFloor) / bankAltWindow)
	s.Roll = math.Sin(s.AnimTime*2*math.Pi()/bankPeriod) * bankAmplitude * bank
}

func (s *State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("position", s.P.DDString()),
		slog.Float64("altitude", float64(s.Altitude)),
		slog.Float64("bearing", float64(s.Bearing)),
		slog.Float64("pitch", float64(s.Pitch)),
		slog.Float64("roll", float64(s.Roll)),
		slog.Float64("anim_time", float64(s.AnimTime)))
}
