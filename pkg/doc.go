// Package pkg provides the libraries behind galaxygen, a procedural spiral
// galaxy painter.
//
// # Overview
//
// A galaxy is painted as a stack of independent layers that are composited
// into one image. The pkg directory is organized into these areas:
//
//  1. [galaxy] - Domain model and generators (spiral mapping, stars,
//     hyperlanes, density passes for arms, nebula and dust)
//  2. [raster] - Canvases, blurs, alpha masks and layer composition
//  3. [pipeline] - Orchestration (validate → generate → compose → export)
//  4. [export] - Output formats (PNG, layer zip, JSON dump, DOT/SVG)
//  5. [settings] - The TOML settings file and its defaults
//  6. [cache] - Artifact caching for seeded runs (file, Redis)
//
// # Architecture
//
// The data flow of one run:
//
//	settings.toml + parameters
//	         ↓
//	    [pipeline] validates options and picks a seed
//	         ↓
//	    [galaxy] generators run in parallel, one seeded stream each
//	         ↓
//	    hyperlanes are laid between the placed stars
//	         ↓
//	    [raster] composites the layers, dust painted through its mask
//	         ↓
//	    PNG/ZIP/JSON/DOT/SVG output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/galaxygen/pkg/pipeline"
//	    "github.com/matzehuels/galaxygen/pkg/settings"
//	)
//
//	opts := pipeline.OptionsFromSettings(settings.Default())
//	opts.Seed = 42
//	opts.Formats = []string{pipeline.FormatPNG}
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Generate(context.Background(), opts)
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
//
// Runs with the same seed, parameters and settings produce the same pixels.
package pkg
