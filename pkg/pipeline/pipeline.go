// Package pipeline turns run parameters into a finished galaxy.
//
// This package is the single entry point used by the CLI and the HTTP
// server. It validates the parameters, fans the generators out in
// parallel, draws the hyperlane network once the stars are placed,
// composites the layers and encodes the requested artifacts.
//
// # Stages
//
//  1. Validate: profile name, arm count, size, star count, formats, settings
//  2. Generate: background, five arm passes, nebula, dust and stars run
//     concurrently; hyperlanes follow the stars
//  3. Compose: layers are alpha-composited in draw order, then the dust
//     mask darkens the result
//  4. Export: PNG, layer zip, JSON dump, DOT and SVG network graphs
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Generate(ctx, pipeline.Options{
//	    Size:    2000,
//	    Arms:    4,
//	    Stars:   8000,
//	    Type:    "spiral",
//	    Seed:    42,
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
//
// A non-zero seed makes a run reproducible and cacheable. With a zero seed
// a random one is drawn and nothing is cached.
package pipeline

import (
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/galaxygen/pkg/errors"
	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/hyperlanes"
	"github.com/matzehuels/galaxygen/pkg/raster"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatZip  = "zip"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"

	// FormatThumb is a PNG preview scaled to ThumbnailWidth.
	FormatThumb = "thumb"
)

// ThumbnailWidth is the edge length of FormatThumb previews.
const ThumbnailWidth = 256

// Formats lists every supported output format.
var Formats = []string{FormatPNG, FormatZip, FormatJSON, FormatDOT, FormatSVG, FormatThumb}

// FileNames maps formats to the file names the CLI writes.
var FileNames = map[string]string{
	FormatPNG:   "galaxy.png",
	FormatZip:   "galaxy_layers.zip",
	FormatJSON:  "galaxy.json",
	FormatDOT:   "hyperlanes.dot",
	FormatSVG:   "hyperlanes.svg",
	FormatThumb: "galaxy_thumb.png",
}

// ContentTypes maps formats to MIME types for the HTTP server.
var ContentTypes = map[string]string{
	FormatPNG:   "image/png",
	FormatZip:   "application/zip",
	FormatJSON:  "application/json",
	FormatDOT:   "text/vnd.graphviz",
	FormatSVG:   "image/svg+xml",
	FormatThumb: "image/png",
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Size  int    `json:"size"`
	Arms  int    `json:"arms"`
	Stars int    `json:"stars"`
	Type  string `json:"type"`

	// Seed selects the random stream. Zero draws a fresh seed and disables
	// caching for the run.
	Seed uint64 `json:"seed,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Upper bounds enforced by the server. Zero means unbounded.
	MaxSize  int `json:"-"`
	MaxStars int `json:"-"`

	Settings *settings.Settings `json:"-"`
	Logger   *log.Logger        `json:"-"`

	profile   galaxy.Profile
	seeded    bool
	validated bool
}

// OptionsFromSettings fills the run parameters and formats from a loaded
// configuration.
func OptionsFromSettings(s *settings.Settings) Options {
	return Options{
		Size:     s.Parameters.Size,
		Arms:     s.Parameters.Arms,
		Stars:    s.Parameters.Stars,
		Type:     s.Parameters.Type,
		Formats:  ExportFormats(s.Export),
		Settings: s,
	}
}

// ExportFormats returns the formats switched on in the export section.
func ExportFormats(e settings.Export) []string {
	var formats []string
	if e.PNG {
		formats = append(formats, FormatPNG)
	}
	if e.Zip {
		formats = append(formats, FormatZip)
	}
	return formats
}

// Parameters returns the run inputs.
func (o *Options) Parameters() settings.Parameters {
	return settings.Parameters{Size: o.Size, Arms: o.Arms, Stars: o.Stars, Type: o.Type}
}

// Seeded reports whether the caller chose the seed.
func (o *Options) Seeded() bool {
	return o.seeded
}

// ValidateAndSetDefaults checks every input and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Settings == nil {
		o.Settings = settings.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateName(o.Type); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProfile, err, "invalid galaxy type")
	}
	profile, err := o.Settings.Profile(o.Type)
	if err != nil {
		return err
	}
	if err := errors.ValidateArms(o.Arms); err != nil {
		return err
	}
	if err := errors.ValidateSize(o.Size, o.MaxSize); err != nil {
		return err
	}
	if err := errors.ValidateStarCount(o.Stars, o.MaxStars); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return err
		}
	}

	o.profile = profile
	o.seeded = o.Seed != 0
	if !o.seeded {
		o.Seed = rand.Uint64() | 1
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a run.
type Result struct {
	// ID identifies the run in logs and in the JSON dump.
	ID string

	Seed       uint64
	Parameters settings.Parameters

	// Image is the composited galaxy. It is nil when the artifacts came
	// from the cache.
	Image *image.RGBA

	Stars   []galaxy.Star
	Network *hyperlanes.Network
	Layers  []raster.Layer

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	Stats    Stats
	CacheHit bool
}

// Stats is the timing report of a run.
type Stats struct {
	Placed    int           `json:"placed"`
	Requested int           `json:"requested"`
	Layers    []LayerTiming `json:"layers"`
	Compose   time.Duration `json:"compose"`
	Export    time.Duration `json:"export"`
	Total     time.Duration `json:"total"`
}

// LayerTiming is how long one generator took.
type LayerTiming struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
	Skipped bool          `json:"skipped,omitempty"`
}

// String renders the duration for reports, or "skipped".
func (t LayerTiming) String() string {
	if t.Skipped {
		return "skipped"
	}
	return t.Elapsed.Round(time.Millisecond).String()
}

// Summary is the star count line of the report.
func (s Stats) Summary() string {
	return fmt.Sprintf("Total stars placed: %d/%d", s.Placed, s.Requested)
}

func timings(layers []raster.Layer) []LayerTiming {
	out := make([]LayerTiming, len(layers))
	for i, l := range layers {
		out[i] = LayerTiming{Name: l.Name, Elapsed: l.Elapsed, Skipped: l.Skipped}
	}
	return out
}
