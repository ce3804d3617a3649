package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/galaxygen/pkg/cache"
	"github.com/matzehuels/galaxygen/pkg/errors"
	"github.com/matzehuels/galaxygen/pkg/export"
	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

func testOptions() Options {
	return Options{
		Size:    128,
		Arms:    4,
		Stars:   200,
		Type:    "spiral",
		Seed:    7,
		Formats: []string{FormatPNG},
	}
}

func TestOptionsValidate(t *testing.T) {
	badSettings := settings.Default()
	badSettings.GalaxyTypes["flat"] = galaxy.Profile{Tightness: 0}

	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"valid", func(*Options) {}, ""},
		{"unknown type", func(o *Options) { o.Type = "elliptical" }, errors.ErrCodeInvalidProfile},
		{"empty type", func(o *Options) { o.Type = "" }, errors.ErrCodeInvalidProfile},
		{"traversal type", func(o *Options) { o.Type = "../x" }, errors.ErrCodeInvalidProfile},
		{"two arms", func(o *Options) { o.Arms = 2 }, errors.ErrCodeInvalidArms},
		{"zero size", func(o *Options) { o.Size = 0 }, errors.ErrCodeInvalidSize},
		{"size over limit", func(o *Options) { o.MaxSize = 100 }, errors.ErrCodeInvalidSize},
		{"zero stars", func(o *Options) { o.Stars = 0 }, errors.ErrCodeInvalidStars},
		{"stars over limit", func(o *Options) { o.MaxStars = 10 }, errors.ErrCodeInvalidStars},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"bad settings", func(o *Options) { o.Settings = badSettings }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsSeed(t *testing.T) {
	opts := testOptions()
	opts.Seed = 0
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Seeded() {
		t.Error("zero seed reported as seeded")
	}
	if opts.Seed == 0 {
		t.Error("no seed was drawn")
	}

	seeded := testOptions()
	if err := seeded.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !seeded.Seeded() || seeded.Seed != 7 {
		t.Errorf("seeded = %v, seed = %d", seeded.Seeded(), seeded.Seed)
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := testOptions()
	opts.Seed = 0
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	seed := opts.Seed
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Seed != seed {
		t.Error("seed changed on second call")
	}
	if opts.Settings == nil || opts.Logger == nil {
		t.Error("defaults not set")
	}
}

func TestOptionsFromSettings(t *testing.T) {
	s := settings.Default()
	s.Export = settings.Export{PNG: true, Zip: true}
	opts := OptionsFromSettings(s)
	if opts.Size != s.Parameters.Size || opts.Type != s.Parameters.Type {
		t.Errorf("parameters not copied: %+v", opts)
	}
	if got := strings.Join(opts.Formats, ","); got != "png,zip" {
		t.Errorf("formats = %s", got)
	}
	if got := ExportFormats(settings.Export{}); len(got) != 0 {
		t.Errorf("no exports enabled gave %v", got)
	}
}

func build(t *testing.T, s *settings.Settings) *Galaxy {
	t.Helper()
	opts := testOptions()
	opts.Settings = s
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	g, err := Build(context.Background(), opts.Seed, opts.profile, s, opts.Parameters())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildLayerOrder(t *testing.T) {
	g := build(t, settings.Default())
	var names []string
	for _, l := range g.Layers() {
		names = append(names, l.Name)
	}
	want := "background,arm_1,arm_2,arm_3,arm_4,arm_5,nebula,hyperlanes,stars,dust"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("layers = %s, want %s", got, want)
	}
	if len(g.Stars.Stars) == 0 {
		t.Error("no stars placed")
	}
	if len(g.Stars.Stars) > 200 {
		t.Errorf("placed %d stars, more than requested", len(g.Stars.Stars))
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := build(t, settings.Default()).Compose()
	b := build(t, settings.Default()).Compose()
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same seed produced different images")
	}
	if a.Bounds().Dx() != 128 {
		t.Errorf("width = %d", a.Bounds().Dx())
	}
}

func TestBuildStepToggles(t *testing.T) {
	s := settings.Default()
	s.Steps = settings.Steps{}
	g := build(t, s)
	if g.Background.Skipped {
		t.Error("background is never skipped")
	}
	for _, l := range g.Layers()[1:] {
		if !l.Skipped {
			t.Errorf("layer %s not skipped", l.Name)
		}
	}
	if len(g.Stars.Stars) != 0 {
		t.Error("stars placed with the star step off")
	}

	// The composite is the background alone.
	img := g.Compose()
	if img.Bounds().Dx() != 128 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestBuildHyperlanesNeedStars(t *testing.T) {
	s := settings.Default()
	s.Steps.Stars = false
	g := build(t, s)
	if !g.Hyperlanes.Layer.Skipped {
		t.Error("hyperlanes drawn without stars")
	}
	if g.Hyperlanes.Network == nil {
		t.Error("skipped hyperlanes should carry an empty network")
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := testOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	_, err := Build(ctx, opts.Seed, opts.profile, opts.Settings, opts.Parameters())
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestStatsReport(t *testing.T) {
	s := Stats{Placed: 12, Requested: 20}
	if got := s.Summary(); got != "Total stars placed: 12/20" {
		t.Errorf("Summary() = %q", got)
	}
	if got := (LayerTiming{Skipped: true}).String(); got != "skipped" {
		t.Errorf("skipped timing = %q", got)
	}
	if got := (LayerTiming{Elapsed: 1234567 * time.Microsecond}).String(); got != "1.235s" {
		t.Errorf("timing = %q", got)
	}
}

func TestRunnerGenerateArtifacts(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := testOptions()
	opts.Formats = []string{FormatPNG, FormatJSON, FormatDOT, FormatZip, FormatThumb}

	res, err := r.Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.ID == "" || res.CacheHit {
		t.Errorf("id = %q, cache hit = %v", res.ID, res.CacheHit)
	}
	if res.Stats.Placed != len(res.Stars) || res.Stats.Requested != 200 {
		t.Errorf("stats = %+v", res.Stats)
	}

	img, err := png.Decode(bytes.NewReader(res.Artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("png width = %d", img.Bounds().Dx())
	}

	var doc struct {
		Seed  uint64            `json:"seed"`
		Stars []json.RawMessage `json:"stars"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if doc.Seed != 7 || len(doc.Stars) != len(res.Stars) {
		t.Errorf("json seed = %d, stars = %d", doc.Seed, len(doc.Stars))
	}

	if !bytes.HasPrefix(res.Artifacts[FormatDOT], []byte("graph hyperlanes {")) {
		t.Errorf("dot = %.40s", res.Artifacts[FormatDOT])
	}
	if !bytes.HasPrefix(res.Artifacts[FormatZip], []byte("PK")) {
		t.Error("zip artifact is not an archive")
	}

	// Canvases smaller than the thumbnail box are not upscaled.
	thumb, err := png.Decode(bytes.NewReader(res.Artifacts[FormatThumb]))
	if err != nil {
		t.Fatalf("decode thumb: %v", err)
	}
	if thumb.Bounds().Dx() != 128 {
		t.Errorf("thumb width = %d", thumb.Bounds().Dx())
	}
}

// countingCache wraps a cache and counts writes.
type countingCache struct {
	cache.Cache
	mu   sync.Mutex
	sets int
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, data, ttl)
}

func newFileCache(t *testing.T) *countingCache {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &countingCache{Cache: fc}
}

func TestRunnerCachesSeededRuns(t *testing.T) {
	c := newFileCache(t)
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := r.Generate(ctx, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Fatal("first run reported a cache hit")
	}
	if c.sets != 2 {
		t.Errorf("cache writes = %d, want artifact + manifest", c.sets)
	}

	second, err := r.Generate(ctx, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second run missed the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatPNG], second.Artifacts[FormatPNG]) {
		t.Error("cached png differs")
	}
	if second.Stats.Placed != first.Stats.Placed || len(second.Stats.Layers) != len(first.Stats.Layers) {
		t.Errorf("cached stats = %+v", second.Stats)
	}
	if second.Image != nil {
		t.Error("cache hit should not carry an image")
	}

	refresh := testOptions()
	refresh.Refresh = true
	third, err := r.Generate(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh served from cache")
	}

	other := testOptions()
	other.Formats = []string{FormatDOT}
	fourth, err := r.Generate(ctx, other)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Error("uncached format served from cache")
	}
}

func TestRunnerSkipsCacheWithoutSeed(t *testing.T) {
	c := newFileCache(t)
	r := NewRunner(c, nil, nil)
	opts := testOptions()
	opts.Seed = 0
	if _, err := r.Generate(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if c.sets != 0 {
		t.Errorf("unseeded run wrote %d cache entries", c.sets)
	}
}

func TestRunnerKeysDependOnSettings(t *testing.T) {
	a := testOptions()
	b := testOptions()
	b.Settings = settings.Default()
	b.Settings.Generation.Hyperlanes.BranchChance = 0.5
	for _, o := range []*Options{&a, &b} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	keyer := cache.NewDefaultKeyer()
	if keyer.GalaxyKey(keyOpts(&a)) == keyer.GalaxyKey(keyOpts(&b)) {
		t.Error("different generation settings share a cache key")
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := testOptions()
	opts.Arms = 1
	if _, err := r.Generate(context.Background(), opts); !errors.Is(err, errors.ErrCodeInvalidArms) {
		t.Errorf("err = %v", err)
	}
}

func TestRenderZipReproducible(t *testing.T) {
	g := build(t, settings.Default())
	a, err := Render(context.Background(), FormatZip, export.Document{}, g, nil)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Second)
	b, err := Render(context.Background(), FormatZip, export.Document{}, g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same galaxy produced different archives")
	}
}
