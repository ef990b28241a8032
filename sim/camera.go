// sim/camera.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/renderer"
)

// freeCamera places the eye laterally offset from the aircraft, looking at
// it. The lateral offset shrinks from CameraLateralBias to zero as the
// fade factor reaches cruise, while the eye rises by up to
// CameraMaxHeight, so near the ground the view is a low chase shot and at
// cruise it is high and centered.
func (d *Driver) freeCamera(animFade float32) *renderer.Camera {
	lateral := math.Lerp(animFade, d.config.CameraLateralBias, 0)

	// Offset perpendicular-left of the aircraft's bearing.
	left := math.Radians(d.entity.Bearing - 90)
	eye := math.Offset2LL(d.entity.P, lateral*math.Sin(left), lateral*math.Cos(left))

	return &renderer.Camera{
		Mode:           renderer.FreeCamera,
		Eye:            eye,
		EyeAltitude:    d.entity.Altitude + d.config.CameraBaseHeight + math.Lerp(animFade, 0, d.config.CameraMaxHeight),
		LookAt:         d.entity.P,
		LookAtAltitude: d.entity.Altitude,
	}
}

// fallbackCamera expresses the same framing as center/zoom/bearing/pitch
// for renderers without free-form camera control: zoomed in and tilted
// near the ground, pulled back and flatter at cruise.
func (d *Driver) fallbackCamera(animFade float32) *renderer.Camera {
	return &renderer.Camera{
		Mode:    renderer.FallbackCamera,
		Center:  d.entity.P,
		Zoom:    math.Lerp(animFade, d.config.ZoomNear, d.config.ZoomFar),
		Bearing: d.entity.Bearing,
		Pitch:   math.Lerp(animFade, d.config.PitchNear, d.config.PitchFar),
	}
}
