// main.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// initializes the system and then runs the animation loop until the route
// is complete.

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/flybysim/flyby/log"
	"github.com/flybysim/flyby/renderer"
	"github.com/flybysim/flyby/route"
	"github.com/flybysim/flyby/sim"
	"github.com/flybysim/flyby/util"

	"golang.org/x/sync/errgroup"
)

var (
	routeFilename  = flag.String("route", "", "route to fly: a GeoJSON file path or the name of a bundled route")
	configFilename = flag.String("config", "", "JSON file overriding the default animation configuration")
	logLevel       = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir         = flag.String("logdir", "", "log file directory")
	fps            = flag.Int("fps", 60, "animation frame rate")
	durationSec    = flag.Float64("duration", 60, "nominal seconds to fly the full route at time-lapse 1")
	loop           = flag.Bool("loop", false, "restart the route from the beginning when it completes")
	fallbackCamera = flag.Bool("fallbackcamera", false, "use center/zoom/bearing/pitch camera directives rather than free eye/look-at placement")
	recordFilename = flag.String("record", "", "write a replayable flight recording to the given file")
	lintRoutes     = flag.Bool("lint", false, "check the validity of the bundled routes and exit")
	listRoutes     = flag.Bool("listroutes", false, "list the bundled routes and exit")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	if *listRoutes {
		for _, name := range bundledRoutes() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	if *lintRoutes {
		if err := lint(lg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *routeFilename == "" {
		fmt.Fprintln(os.Stderr, "must specify a route to fly with -route")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fly(ctx, *routeFilename, lg); err != nil && ctx.Err() == nil {
		lg.Errorf("%s: %v", *routeFilename, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", *routeFilename, err)
		os.Exit(1)
	}
}

func fly(ctx context.Context, path string, lg *log.Logger) error {
	loader := route.NewLoader(4, lg)
	r, err := loader.Load(path)
	if err != nil {
		return err
	}
	lg.Infof("%s: loaded route: %d points, %.1f km", path, r.NumPoints(), r.TotalLength()/1000)

	config := sim.DefaultConfig()
	if *configFilename != "" {
		b, err := os.ReadFile(*configFilename)
		if err != nil {
			return err
		}
		if err := util.UnmarshalJSON(b, &config); err != nil {
			return err
		}
	}
	// Explicit command-line flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			config.Duration = float32(*durationSec * 1000)
		case "loop":
			config.Loop = *loop
		case "fallbackcamera":
			config.FreeCamera = !*fallbackCamera
		}
	})

	events := sim.NewEventStream(lg)
	driver := sim.NewDriver(r, config, events, lg)

	var rend renderer.Renderer = &renderer.LogRenderer{Lg: lg}
	if *recordFilename != "" {
		f, err := os.Create(*recordFilename)
		if err != nil {
			return err
		}
		defer f.Close()

		rec, err := renderer.NewRecorder(f)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				lg.Errorf("%s: %v", *recordFilename, err)
			}
			lg.Infof("%s: recorded %d frames", *recordFilename, rec.NumFrames())
		}()
		rend = multiRenderer{rend, rec}
	}

	stats := sim.NewStats(events)
	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go stats.Report(statsCtx, lg)

	return driver.Run(ctx, rend, *fps)
}

// lint loads and validates every bundled route concurrently, reporting all
// of the problems found rather than stopping at the first.
func lint(lg *log.Logger) error {
	var g errgroup.Group
	for _, name := range bundledRoutes() {
		name := name
		g.Go(func() error {
			var e util.ErrorLogger
			b := util.LoadResourceBytes(filepath.Join("routes", name))
			_, err := route.FromGeoJSON(b, &e)
			if e.HaveErrors() {
				e.PrintErrors(lg)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func bundledRoutes() []string {
	var names []string
	_ = util.WalkResources("routes", func(path string, d fs.DirEntry, filesystem fs.FS, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".geojson") {
			names = append(names, filepath.Base(path))
		}
		return nil
	})
	return names
}

// multiRenderer fans each frame out to multiple renderers; the first error
// wins.
type multiRenderer []renderer.Renderer

func (m multiRenderer) ApplyCamera(c *renderer.Camera) error {
	for _, r := range m {
		if err := r.ApplyCamera(c); err != nil {
			return err
		}
	}
	return nil
}

func (m multiRenderer) Draw(s *renderer.Snapshot) error {
	for _, r := range m {
		if err := r.Draw(s); err != nil {
			return err
		}
	}
	return nil
}
