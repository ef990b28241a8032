// sim/driver.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sim holds the per-frame control loop of the flyover animation:
// it advances a normalized route phase with an altitude-driven time-lapse
// factor, drives the route sampler and the smoothed entity state, and
// computes camera placement for the external renderer.
package sim

import (
	"context"
	"time"

	"github.com/flybysim/flyby/anim"
	"github.com/flybysim/flyby/log"
	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/renderer"
	"github.com/flybysim/flyby/route"

	"github.com/brunoga/deep"
)

type Config struct {
	// Duration is the nominal time in milliseconds to fly the full route
	// at time-lapse factor 1.
	Duration float32

	// Time-lapse factor ramps from TimelapseMin at FadeAltMin and below
	// to TimelapseMax at FadeAltMax and above, with a quadratic ease so
	// the speed-up is gentle near the ground.
	TimelapseMin float32
	TimelapseMax float32
	FadeAltMin   float32 // meters
	FadeAltMax   float32 // meters

	// Loop selects the end-of-route policy: wrap back to the start rather
	// than finishing.
	Loop bool

	// FreeCamera selects eye/look-at camera directives; when false (or
	// when the renderer rejects them) center/zoom/bearing/pitch fallback
	// directives are produced instead.
	FreeCamera bool

	CameraLateralBias float32 // meters, lateral offset near the ground
	CameraBaseHeight  float32 // meters above the aircraft
	CameraMaxHeight   float32 // additional meters at full fade

	// Fallback camera tuning: near-ground and at-cruise endpoints.
	ZoomNear  float32
	ZoomFar   float32
	PitchNear float32 // degrees
	PitchFar  float32 // degrees

	// Wall-clock frame deltas are clamped to this range in milliseconds
	// so that stalls and debugger pauses don't cause catastrophic jumps.
	MinFrameMs float32
	MaxFrameMs float32
}

func DefaultConfig() Config {
	return Config{
		Duration:          60000,
		TimelapseMin:      1,
		TimelapseMax:      15,
		FadeAltMin:        100,
		FadeAltMax:        1500,
		Loop:              false,
		FreeCamera:        true,
		CameraLateralBias: 250,
		CameraBaseHeight:  80,
		CameraMaxHeight:   600,
		ZoomNear:          16.5,
		ZoomFar:           13.5,
		PitchNear:         60,
		PitchFar:          35,
		MinFrameMs:        1,
		MaxFrameMs:        100,
	}
}

// Driver runs the animation: it owns the Route, the single entity State,
// and the per-frame transients. It is single-goroutine; exactly one Tick
// runs per rendered frame.
type Driver struct {
	config Config
	route  *route.Route
	entity *anim.State
	lg     *log.Logger

	phase          float32 // route progress in [0,1]
	routeElevation float32 // last sampled target altitude, not the smoothed one
	lastFade       float32
	lastFrameTime  time.Time
	finished       bool

	// Set once the renderer has rejected a free-camera directive.
	freeCameraFailed bool

	events *EventStream
}

func NewDriver(r *route.Route, config Config, events *EventStream, lg *log.Logger) *Driver {
	return &Driver{
		config: config,
		route:  r,
		entity: anim.NewState(r.Sample(0)),
		events: events,
		lg:     lg,
	}
}

func (d *Driver) Phase() float32    { return d.phase }
func (d *Driver) Finished() bool    { return d.finished }
func (d *Driver) State() anim.State { return *d.entity }

// Tick advances the animation to the frame timestamp now, deriving the
// frame delta from the previous call. The first call uses the minimum
// frame delta.
func (d *Driver) Tick(now time.Time) (*renderer.Snapshot, *renderer.Camera, bool) {
	dtMs := d.config.MinFrameMs
	if !d.lastFrameTime.IsZero() {
		dtMs = float32(now.Sub(d.lastFrameTime).Seconds() * 1000)
	}
	d.lastFrameTime = now

	return d.Advance(math.Clamp(dtMs, d.config.MinFrameMs, d.config.MaxFrameMs))
}

// Advance is the deterministic core of Tick: advance the animation by
// exactly dtMs milliseconds. The returned bool reports whether the
// animation is still running; the final frame of a terminal (non-looping)
// run is returned with running == false. An empty route returns
// (nil, nil, false): the animation cannot start.
func (d *Driver) Advance(dtMs float32) (*renderer.Snapshot, *renderer.Camera, bool) {
	if d.finished {
		return nil, nil, false
	}

	// The fade factor comes from the previous frame's sampled route
	// elevation rather than the smoothed entity altitude; the smoothing
	// lag would otherwise feed back into the camera and time-lapse.
	animFade := math.Clamp01((d.routeElevation - d.config.FadeAltMin) /
		(d.config.FadeAltMax - d.config.FadeAltMin))
	d.lastFade = animFade

	timelapse := math.Lerp(math.Sqr(animFade), d.config.TimelapseMin, d.config.TimelapseMax)
	d.phase += dtMs * timelapse / d.config.Duration

	if d.phase >= 1 {
		if d.config.Loop {
			d.phase = 0
			d.routeElevation = 0
		} else {
			d.phase = 1
			d.finished = true
		}
	}

	sample := d.route.Sample(d.route.TotalLength() * math.Clamp01(d.phase))
	if sample == nil {
		d.finished = true
		return nil, nil, false
	}

	d.entity.Update(sample, dtMs)
	d.routeElevation = sample.Altitude

	snap := renderer.MakeSnapshot(d.entity)
	var camera *renderer.Camera
	if d.config.FreeCamera && !d.freeCameraFailed {
		camera = d.freeCamera(animFade)
	} else {
		camera = d.fallbackCamera(animFade)
	}

	return snap, camera, !d.finished
}

// postFrame publishes a frame to the event stream. Run calls it only once
// the renderer has accepted the camera, so subscribers always see the
// directive that was actually applied rather than a rejected one.
func (d *Driver) postFrame(snap *renderer.Snapshot, camera *renderer.Camera) {
	if d.events == nil {
		return
	}
	// Subscribers may drain from other goroutines; hand them their own
	// copy.
	d.events.Post(Event{Snapshot: deep.MustCopy(snap), Camera: deep.MustCopy(camera)})
}

// Run drives Tick from a wall-clock ticker at the given frame rate until
// the animation finishes or the context is canceled, posting each drawn
// frame to the event stream. A renderer error from a free-camera directive
// demotes the rest of the run to fallback directives; any other renderer
// error stops the run.
func (d *Driver) Run(ctx context.Context, rend renderer.Renderer, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case now := <-ticker.C:
			snap, camera, running := d.Tick(now)
			if snap == nil {
				if !running {
					return nil
				}
				continue
			}

			if err := rend.ApplyCamera(camera); err != nil {
				if camera.Mode != renderer.FreeCamera {
					return err
				}
				d.lg.Warnf("free camera rejected, falling back: %v", err)
				d.freeCameraFailed = true
				camera = d.fallbackCamera(d.lastFade)
				if err := rend.ApplyCamera(camera); err != nil {
					return err
				}
			}
			if err := rend.Draw(snap); err != nil {
				return err
			}
			d.postFrame(snap, camera)

			if !running {
				d.lg.Infof("route complete after %.1fs", d.entity.AnimTime)
				return nil
			}
		}
	}
}
