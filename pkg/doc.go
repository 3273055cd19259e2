// Package pkg provides the libraries behind timeruler, a vertical timeline
// ruler with focus-driven magnification.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [timeline] - Daily activity data model and synthetic generator
//  2. [ruler/layout] - Magnification, offset compensation and year markers
//  3. [ruler/view] - Interactive focus, hover and current-date state
//  4. [ruler/sink] - SVG, JSON and text renderers
//  5. [pipeline] - Orchestration (generate → layout → render) with caching
//  6. [cache] - File, Redis and null cache backends
//
// # Architecture
//
// Data flows one way:
//
//	timeline.Generator / data file
//	         ↓
//	    timeline.Data (one entry per day)
//	         ↓
//	    layout.Build (bars, offset, year markers)
//	         ↓
//	    sink.RenderSVG / RenderJSON / RenderText
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/timeruler/pkg/ruler/layout"
//	    "github.com/matzehuels/timeruler/pkg/ruler/sink"
//	    "github.com/matzehuels/timeruler/pkg/timeline"
//	)
//
//	data, _ := timeline.NewGenerator(42, timeline.GeneratorOptions{}).
//	    Generate(timeline.DefaultStart, timeline.DefaultEnd)
//	l := layout.Build(data, layout.State{Focus: timeline.MustParseDate("2023-06-03")},
//	    layout.WithCurrentYear(2024))
//	svg := sink.RenderSVG(l)
//
// # Supporting Packages
//
//   - [errors] - Structured error codes shared by the CLI and server
//   - [observability] - Hook registry for metrics and tracing
//   - [buildinfo] - Version information set at build time
package pkg
