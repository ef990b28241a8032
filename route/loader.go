// route/loader.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flybysim/flyby/log"
	"github.com/flybysim/flyby/math"
	"github.com/flybysim/flyby/util"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Loader loads Routes from GeoJSON files, keeping recently used ones in an
// in-memory LRU and the parsed arrays in the on-disk object cache so that
// repeatedly touring the same routes doesn't reparse them each time.
type Loader struct {
	cache *lru.Cache[string, *Route]
	lg    *log.Logger
}

// routeData is the disk-cache representation of a parsed route.
type routeData struct {
	Points    []math.Point2LL
	Elevation []float32
}

func NewLoader(size int, lg *log.Logger) *Loader {
	c, err := lru.New[string, *Route](math.Clamp(size, 1, 64))
	if err != nil {
		// Only happens for a non-positive size, which the Clamp rules out.
		panic(err)
	}
	return &Loader{cache: c, lg: lg}
}

// Load returns the Route stored in the GeoJSON file at the given path,
// which may be an absolute path or the name of a bundled route under
// resources/routes.
func (l *Loader) Load(path string) (*Route, error) {
	if r, ok := l.cache.Get(path); ok {
		return r, nil
	}

	b, mtime, err := l.read(path)
	if err != nil {
		return nil, err
	}

	cacheName := diskCacheName(path)
	var data routeData
	if t, err := util.CacheRetrieveObject(cacheName, &data); err == nil && t.After(mtime) {
		var e util.ErrorLogger
		if r, err := New(data.Points, data.Elevation, &e); err == nil {
			l.cache.Add(path, r)
			return r, nil
		}
		// A stale or corrupted cache entry; fall through and reparse.
	}

	var e util.ErrorLogger
	r, err := FromGeoJSON(b, &e)
	if e.HaveErrors() {
		e.PrintErrors(l.lg)
	}
	if err != nil {
		return nil, err
	}

	if err := util.CacheStoreObject(cacheName, routeData{Points: r.points, Elevation: r.elevation}); err != nil {
		l.lg.Warnf("%s: unable to cache route: %v", cacheName, err)
	}

	l.cache.Add(path, r)
	return r, nil
}

// diskCacheName returns the object-cache filename for the route at the
// given path. The full path is folded into the name so that same-named
// route files in different directories don't share a cache entry; the
// basename is kept for legibility when poking around the cache directory.
func diskCacheName(path string) string {
	h := sha256.Sum256([]byte(path))
	return fmt.Sprintf("%s-%x.route", strings.TrimSuffix(filepath.Base(path), ".zst"), h[:8])
}

func (l *Loader) read(path string) ([]byte, time.Time, error) {
	if fi, err := os.Stat(path); err == nil {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, time.Time{}, err
		}
		if filepath.Ext(path) == ".zst" {
			if b, err = util.DecompressZstd(b); err != nil {
				return nil, time.Time{}, err
			}
		}
		return b, fi.ModTime(), nil
	}

	// Fall back to the bundled routes.
	res := filepath.Join("routes", path)
	if !util.ResourceExists(res) {
		res += ".geojson"
	}
	fi, err := util.GetResourcesFS().Stat(res)
	if err != nil {
		return nil, time.Time{}, err
	}
	return util.LoadResourceBytes(res), fi.ModTime(), nil
}
