// route/geojson.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/util"
)

// The subset of GeoJSON we care about: a LineString geometry carrying the
// path, and an "elevation" property with a parallel array of altitudes in
// meters. Everything else in the file is ignored.
type geojsonGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float32 `json:"coordinates"` // [longitude, latitude]
}

type geojsonProperties struct {
	Elevation []float32 `json:"elevation"`
}

type geojsonFeature struct {
	Type       string            `json:"type"`
	Geometry   geojsonGeometry   `json:"geometry"`
	Properties geojsonProperties `json:"properties"`
}

type geojsonDocument struct {
	Type       string            `json:"type"`
	Features   []geojsonFeature  `json:"features"`
	Geometry   geojsonGeometry   `json:"geometry"`
	Properties geojsonProperties `json:"properties"`
}

// FromGeoJSON builds a Route from a GeoJSON Feature whose geometry is a
// LineString, or from the first LineString feature of a FeatureCollection.
// Per-point altitudes come from the feature's "elevation" property; a
// missing or short elevation array degrades to zero-filled entries (with a
// warning accumulated on the ErrorLogger) rather than failing the load.
func FromGeoJSON(b []byte, e *util.ErrorLogger) (*Route, error) {
	var doc geojsonDocument
	if err := util.UnmarshalJSON(b, &doc); err != nil {
		e.Error(err)
		return nil, ErrMalformedRoute
	}

	var geom *geojsonGeometry
	var props *geojsonProperties
	switch doc.Type {
	case "FeatureCollection":
		for i, f := range doc.Features {
			if f.Geometry.Type == "LineString" {
				geom, props = &doc.Features[i].Geometry, &doc.Features[i].Properties
				break
			}
		}
	case "Feature":
		if doc.Geometry.Type == "LineString" {
			geom, props = &doc.Geometry, &doc.Properties
		}
	}
	if geom == nil {
		e.ErrorString("no LineString geometry found in GeoJSON")
		return nil, ErrMalformedRoute
	}

	points := make([]math.Point2LL, len(geom.Coordinates))
	for i, c := range geom.Coordinates {
		points[i] = math.Point2LL{c[0], c[1]}
	}

	return New(points, props.Elevation, e)
}
