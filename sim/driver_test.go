// sim/driver_test.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/renderer"
	"github.com/flybysim/flyby/route"
	"github.com/flybysim/flyby/util"
)

// flatRoute returns a two-point route along the equator with the given
// endpoint elevations.
func flatRoute(t *testing.T, elev0, elev1 float32) *route.Route {
	t.Helper()
	var e util.ErrorLogger
	r, err := route.New([]math.Point2LL{{0, 0}, {1, 0}}, []float32{elev0, elev1}, &e)
	if err != nil {
		t.Fatalf("unexpected route error: %v", err)
	}
	return r
}

func TestPhaseAccumulationAtTimelapseFloor(t *testing.T) {
	// With the route entirely below FadeAltMin the time-lapse factor stays
	// pinned at TimelapseMin, so the phase advance per tick is exactly
	// dt * TimelapseMin / Duration.
	config := DefaultConfig()
	config.Duration = 60000
	d := NewDriver(flatRoute(t, 0, 0), config, nil, nil)

	var expected float32
	for k := 1; k <= 30; k++ {
		snap, _, running := d.Advance(1000)
		if snap == nil || !running {
			t.Fatalf("tick %d: animation stopped early", k)
		}

		expected += 1000 * config.TimelapseMin / config.Duration
		if d.Phase() != expected {
			t.Errorf("tick %d: phase = %g, expected exactly %g", k, d.Phase(), expected)
		}
	}
}

func TestTerminalPolicy(t *testing.T) {
	config := DefaultConfig()
	config.Duration = 1000
	d := NewDriver(flatRoute(t, 0, 0), config, nil, nil)

	if _, _, running := d.Advance(500); !running {
		t.Fatalf("stopped after half the route")
	}

	// This tick reaches phase 1: the final frame comes back along with
	// running == false.
	snap, _, running := d.Advance(500)
	if snap == nil {
		t.Fatalf("no final frame at the end of the route")
	}
	if running {
		t.Errorf("still running at phase 1 without looping")
	}
	if !d.Finished() {
		t.Errorf("driver not finished at phase 1")
	}
	// dt=500ms clamps the position smoothing factor to 1, so the final
	// frame sits exactly at the end of the route.
	if snap.P != (math.Point2LL{1, 0}) {
		t.Errorf("final frame at %v, expected the route's end", snap.P)
	}

	if snap, _, running := d.Advance(500); snap != nil || running {
		t.Errorf("finished driver still producing frames")
	}
}

func TestLoopPolicy(t *testing.T) {
	config := DefaultConfig()
	config.Duration = 1000
	config.Loop = true
	d := NewDriver(flatRoute(t, 0, 400), config, nil, nil)

	d.Advance(500)
	snap, _, running := d.Advance(500) // phase reaches 1 and wraps
	if !running || d.Finished() {
		t.Fatalf("looping driver stopped at the end of the route")
	}
	if d.Phase() != 0 {
		t.Errorf("phase = %g after wrap, expected 0", d.Phase())
	}
	if snap.P != (math.Point2LL{0, 0}) {
		t.Errorf("frame after wrap at %v, expected the route's start", snap.P)
	}

	// The wrap also resets the stored route elevation, so the next tick's
	// fade factor starts from the ground again.
	if _, _, running := d.Advance(1); !running {
		t.Errorf("looping driver stopped after wrapping")
	}
}

func TestEmptyRoute(t *testing.T) {
	var r *route.Route
	d := NewDriver(r, DefaultConfig(), nil, nil)

	snap, camera, running := d.Advance(16)
	if snap != nil || camera != nil || running {
		t.Errorf("driver with no route data produced a frame")
	}
}

func TestFallbackCameraDirectives(t *testing.T) {
	config := DefaultConfig()
	config.FreeCamera = false
	d := NewDriver(flatRoute(t, 0, 0), config, nil, nil)

	_, camera, _ := d.Advance(16)
	if camera.Mode != renderer.FallbackCamera {
		t.Fatalf("expected fallback camera directives")
	}
	if camera.Zoom != config.ZoomNear {
		t.Errorf("zoom = %g at zero fade, expected %g", camera.Zoom, config.ZoomNear)
	}
	if camera.Pitch != config.PitchNear {
		t.Errorf("pitch = %g at zero fade, expected %g", camera.Pitch, config.PitchNear)
	}
	if math.HeadingDifference(camera.Bearing, 90) > 0.1 {
		t.Errorf("camera bearing = %g, expected the route's eastward 90", camera.Bearing)
	}
}

func TestFreeCameraGeometry(t *testing.T) {
	config := DefaultConfig()
	d := NewDriver(flatRoute(t, 0, 0), config, nil, nil)

	_, camera, _ := d.Advance(1000)
	if camera.Mode != renderer.FreeCamera {
		t.Fatalf("expected free camera directives")
	}

	// Flying east at zero fade: the eye sits the full lateral bias to the
	// left of track, which is north, at base height above the aircraft.
	if camera.Eye.Latitude() <= camera.LookAt.Latitude() {
		t.Errorf("eye at latitude %g, expected north of the aircraft at %g",
			camera.Eye.Latitude(), camera.LookAt.Latitude())
	}
	if math.Abs(camera.Eye.Longitude()-camera.LookAt.Longitude()) > 1e-4 {
		t.Errorf("eye longitude %g, expected alongside the aircraft at %g",
			camera.Eye.Longitude(), camera.LookAt.Longitude())
	}
	wantAlt := d.State().Altitude + config.CameraBaseHeight
	if math.Abs(camera.EyeAltitude-wantAlt) > 1e-3 {
		t.Errorf("eye altitude %g, expected %g", camera.EyeAltitude, wantAlt)
	}

	lateral := math.DistanceLL(camera.Eye, camera.LookAt)
	if math.Abs(lateral-config.CameraLateralBias) > 2 {
		t.Errorf("lateral offset %g m, expected %g", lateral, config.CameraLateralBias)
	}
}

func TestTimelapseRampsWithAltitude(t *testing.T) {
	config := DefaultConfig()
	config.Duration = 1e9 // keep the phase far from the end

	// A route at cruise altitude: after the first tick the stored route
	// elevation is at FadeAltMax, so the following ticks run at
	// TimelapseMax.
	d := NewDriver(flatRoute(t, config.FadeAltMax, config.FadeAltMax), config, nil, nil)

	d.Advance(100)
	p0 := d.Phase()
	d.Advance(100)
	lowInc := p0 // first tick ran at TimelapseMin: routeElevation started at 0
	highInc := d.Phase() - p0

	wantRatio := config.TimelapseMax / config.TimelapseMin
	if ratio := highInc / lowInc; math.Abs(ratio-wantRatio) > 0.01 {
		t.Errorf("cruise/ground phase increment ratio = %g, expected %g", ratio, wantRatio)
	}
}

// rejectFreeCamera fails every free-camera directive, as a renderer
// without free-form camera control would.
type rejectFreeCamera struct {
	fallbacks int
	draws     int
}

func (r *rejectFreeCamera) ApplyCamera(c *renderer.Camera) error {
	if c.Mode == renderer.FreeCamera {
		return errors.New("free-form camera control not supported")
	}
	r.fallbacks++
	return nil
}

func (r *rejectFreeCamera) Draw(s *renderer.Snapshot) error {
	r.draws++
	return nil
}

func TestRunFallsBackOnCameraFailure(t *testing.T) {
	events := NewEventStream(nil)
	sub := events.Subscribe()

	config := DefaultConfig()
	config.Duration = 100
	d := NewDriver(flatRoute(t, 0, 0), config, events, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rend := &rejectFreeCamera{}
	if err := d.Run(ctx, rend, 120); err != nil {
		t.Fatalf("Run returned %v; a free-camera rejection should fall back, not fail", err)
	}
	if rend.draws == 0 {
		t.Errorf("no frames drawn")
	}
	if rend.fallbacks < rend.draws {
		t.Errorf("%d fallback directives for %d frames", rend.fallbacks, rend.draws)
	}
	if !d.Finished() {
		t.Errorf("run returned without finishing the route")
	}

	// Every posted frame carries the directive the renderer actually
	// accepted, including the frame where the free camera was rejected.
	evs := sub.Get()
	if len(evs) != rend.draws {
		t.Errorf("got %d frame events for %d drawn frames", len(evs), rend.draws)
	}
	for _, ev := range evs {
		if ev.Camera.Mode != renderer.FallbackCamera {
			t.Errorf("posted frame carries camera mode %v; the renderer was driven with fallback directives", ev.Camera.Mode)
		}
	}
}

// countingRenderer accepts every directive, recording the camera mode
// applied before each frame.
type countingRenderer struct {
	modes []renderer.CameraMode
	draws int
}

func (r *countingRenderer) ApplyCamera(c *renderer.Camera) error {
	r.modes = append(r.modes, c.Mode)
	return nil
}

func (r *countingRenderer) Draw(s *renderer.Snapshot) error {
	r.draws++
	return nil
}

func TestRunPostsFrames(t *testing.T) {
	events := NewEventStream(nil)
	sub := events.Subscribe()

	config := DefaultConfig()
	config.Duration = 100
	d := NewDriver(flatRoute(t, 0, 0), config, events, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rend := &countingRenderer{}
	if err := d.Run(ctx, rend, 120); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	evs := sub.Get()
	if len(evs) != rend.draws {
		t.Fatalf("got %d frame events for %d drawn frames", len(evs), rend.draws)
	}
	for i, ev := range evs {
		if ev.Snapshot == nil || ev.Camera == nil {
			t.Errorf("frame event missing snapshot or camera: %+v", ev)
		}
		if ev.Camera.Mode != rend.modes[i] {
			t.Errorf("frame %d posted camera mode %v, renderer was given %v", i, ev.Camera.Mode, rend.modes[i])
		}
	}
}
