// renderer/renderer.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package renderer defines the value types handed to an external rendering
// layer each frame: a snapshot of the aircraft's visual state and a camera
// directive. No rendering happens here; implementations of the Renderer
// interface bridge to whatever map or 3D engine is in use.
package renderer

import (
	"log/slog"

	"github.com/flybysim/flyby/anim"
	"github.com/flybysim/flyby/log"
	"github.com/flybysim/flyby/math"
)

// Rotation is a 3-axis rotation triple in degrees: roll, pitch, yaw.
type Rotation [3]float32

func (r Rotation) Roll() float32  { return r[0] }
func (r Rotation) Pitch() float32 { return r[1] }
func (r Rotation) Yaw() float32   { return r[2] }

// Propeller spin rates, revolutions per second. The blurred propeller is a
// separate fast-cycling mesh that engines cross-fade to at speed.
const (
	propellerRevsPerSec        = 4
	propellerBlurredRevsPerSec = 40
)

// Part and light group names used in Snapshot; external renderers map
// these onto model nodes.
const (
	PartGearFront        = "gear_front"
	PartGearRear         = "gear_rear"
	PartPropeller        = "propeller"
	PartPropellerBlurred = "propeller_blurred"

	LightSteady = "steady"
	LightStrobe = "strobe"
	LightTaxi   = "taxi"
)

type PartState struct {
	Name     string
	Rotation Rotation
}

type LightState struct {
	Name     string
	Emission float32 // [0,1]
}

// Snapshot is one frame's renderable aircraft state. Once handed to a
// Renderer it must be treated as an immutable value copy; the driver never
// mutates a Snapshot after handoff.
type Snapshot struct {
	P        math.Point2LL
	Altitude float32 // meters
	Body     Rotation
	Parts    []PartState
	Lights   []LightState
	AnimTime float32 // seconds
}

// MakeSnapshot builds the renderable state for the current frame from the
// smoothed entity state. Propeller angles are pure functions of the
// animation time.
func MakeSnapshot(s *anim.State) *Snapshot {
	prop := math.Mod(s.AnimTime*propellerRevsPerSec*360, 360)
	propBlurred := math.Mod(s.AnimTime*propellerBlurredRevsPerSec*360, 360)

	return &Snapshot{
		P:        s.P,
		Altitude: s.Altitude,
		Body:     Rotation{s.Roll, s.Pitch, s.Bearing},
		Parts: []PartState{
			{Name: PartGearFront, Rotation: Rotation{0, s.FrontGearAngle, 0}},
			{Name: PartGearRear, Rotation: Rotation{0, s.RearGearAngle, 0}},
			{Name: PartPropeller, Rotation: Rotation{prop, 0, 0}},
			{Name: PartPropellerBlurred, Rotation: Rotation{propBlurred, 0, 0}},
		},
		Lights: []LightState{
			{Name: LightSteady, Emission: s.LightPhase},
			{Name: LightStrobe, Emission: s.LightStrobePhase},
			{Name: LightTaxi, Emission: s.LightTaxiPhase},
		},
		AnimTime: s.AnimTime,
	}
}

type CameraMode int

const (
	// FreeCamera places an eye point in space looking at a target; it
	// needs an engine with free-form camera control.
	FreeCamera CameraMode = iota
	// FallbackCamera expresses the view as center/zoom/bearing/pitch for
	// engines without free-form cameras.
	FallbackCamera
)

// Camera is the per-frame camera directive. The fields that are meaningful
// depend on Mode.
type Camera struct {
	Mode CameraMode

	// FreeCamera
	Eye            math.Point2LL
	EyeAltitude    float32
	LookAt         math.Point2LL
	LookAtAltitude float32

	// FallbackCamera
	Center  math.Point2LL
	Zoom    float32
	Bearing float32
	Pitch   float32
}

// Renderer consumes per-frame state. ApplyCamera may fail for a FreeCamera
// directive on engines without that capability; that is an expected,
// recoverable condition and the driver responds by switching to
// FallbackCamera directives.
type Renderer interface {
	ApplyCamera(c *Camera) error
	Draw(s *Snapshot) error
}

// LogRenderer is a headless Renderer that writes frames to the log; it is
// what the command-line tool uses when no engine is attached.
type LogRenderer struct {
	Lg *log.Logger
}

func (lr *LogRenderer) ApplyCamera(c *Camera) error {
	lr.Lg.Debug("camera", slog.Int("mode", int(c.Mode)),
		slog.String("eye", c.Eye.DDString()), slog.Float64("eye_altitude", float64(c.EyeAltitude)),
		slog.String("center", c.Center.DDString()), slog.Float64("zoom", float64(c.Zoom)))
	return nil
}

func (lr *LogRenderer) Draw(s *Snapshot) error {
	lr.Lg.Debug("frame", slog.String("position", s.P.DDString()),
		slog.Float64("altitude", float64(s.Altitude)),
		slog.Float64("yaw", float64(s.Body.Yaw())),
		slog.Float64("anim_time", float64(s.AnimTime)))
	return nil
}
