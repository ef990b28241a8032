// renderer/geojson.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"encoding/json"

	"github.com/iancoleman/orderedmap"
)

// SnapshotFeature encodes a Snapshot as a GeoJSON Point feature for map
// renderers that consume feature updates. Properties are emitted in a
// stable order so that successive frames diff cleanly.
func SnapshotFeature(s *Snapshot) ([]byte, error) {
	geom := orderedmap.New()
	geom.Set("type", "Point")
	geom.Set("coordinates", []float32{s.P.Longitude(), s.P.Latitude(), s.Altitude})

	props := orderedmap.New()
	props.Set("altitude", s.Altitude)
	props.Set("roll", s.Body.Roll())
	props.Set("pitch", s.Body.Pitch())
	props.Set("bearing", s.Body.Yaw())
	for _, p := range s.Parts {
		props.Set(p.Name, p.Rotation)
	}
	for _, l := range s.Lights {
		props.Set("light_"+l.Name, l.Emission)
	}
	props.Set("anim_time", s.AnimTime)

	f := orderedmap.New()
	f.Set("type", "Feature")
	f.Set("geometry", geom)
	f.Set("properties", props)

	return json.Marshal(f)
}
