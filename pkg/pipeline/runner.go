package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/galaxygen/pkg/cache"
	"github.com/matzehuels/galaxygen/pkg/errors"
	"github.com/matzehuels/galaxygen/pkg/export"
	"github.com/matzehuels/galaxygen/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// manifest is stored under the galaxy key next to the artifacts so a cache
// hit can still report what the run produced.
type manifest struct {
	ID      string   `json:"id"`
	Formats []string `json:"formats"`
	Stats   Stats    `json:"stats"`
}

// Generate runs validate → generate → compose → export for one galaxy.
// Seeded runs are served from and written to the cache.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	params := opts.Parameters()
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, id, params.String())

	var key string
	if opts.Seeded() {
		key = r.Keyer.GalaxyKey(keyOpts(&opts))
		if !opts.Refresh {
			if res, ok := r.fromCache(ctx, key, &opts); ok {
				res.ID = id
				res.Stats.Total = time.Since(start)
				hooks.OnGenerateComplete(ctx, id, res.Stats.Placed, res.Stats.Total, nil)
				opts.Logger.Info("served galaxy from cache", "seed", opts.Seed, "formats", opts.Formats)
				return res, nil
			}
		}
	}

	g, err := Build(ctx, opts.Seed, opts.profile, opts.Settings, params)
	if err != nil {
		hooks.OnGenerateComplete(ctx, id, 0, time.Since(start), err)
		return nil, err
	}
	layers := g.Layers()
	for _, l := range layers {
		hooks.OnLayerComplete(ctx, id, l.Name, l.Elapsed, l.Skipped)
	}

	composeStart := time.Now()
	img := g.Compose()

	res := &Result{
		ID:         id,
		Seed:       opts.Seed,
		Parameters: params,
		Image:      img,
		Stars:      g.Stars.Stars,
		Network:    g.Hyperlanes.Network,
		Layers:     layers,
		Artifacts:  make(map[string][]byte, len(opts.Formats)),
		Stats: Stats{
			Placed:    len(g.Stars.Stars),
			Requested: params.Stars,
			Layers:    timings(layers),
			Compose:   time.Since(composeStart),
		},
	}
	opts.Logger.Debug("composited layers", "duration", res.Stats.Compose.Round(time.Millisecond))

	doc := export.NewDocument(id, opts.Seed, params, opts.profile, res.Stars, res.Network, layers)
	exportStart := time.Now()
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		data, err := Render(ctx, format, doc, g, img)
		hooks.OnExportComplete(ctx, id, format, len(data), time.Since(t), err)
		if err != nil {
			hooks.OnGenerateComplete(ctx, id, res.Stats.Placed, time.Since(start), err)
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		res.Artifacts[format] = data
	}
	res.Stats.Export = time.Since(exportStart)
	res.Stats.Total = time.Since(start)

	if key != "" {
		r.store(ctx, key, res, opts.Formats)
	}

	hooks.OnGenerateComplete(ctx, id, res.Stats.Placed, res.Stats.Total, nil)
	opts.Logger.Info("generated galaxy",
		"stars", res.Stats.Placed,
		"requested", res.Stats.Requested,
		"duration", res.Stats.Total.Round(time.Millisecond))
	return res, nil
}

// fromCache returns a result when the manifest and every requested format
// are cached.
func (r *Runner) fromCache(ctx context.Context, key string, opts *Options) (*Result, bool) {
	hooks := observability.Cache()

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, "manifest")
		return nil, false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		hooks.OnCacheMiss(ctx, "manifest")
		return nil, false
	}
	hooks.OnCacheHit(ctx, "manifest")

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(key, format))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, format)
			return nil, false
		}
		hooks.OnCacheHit(ctx, format)
		artifacts[format] = data
	}

	return &Result{
		Seed:       opts.Seed,
		Parameters: opts.Parameters(),
		Artifacts:  artifacts,
		Stats:      m.Stats,
		CacheHit:   true,
	}, true
}

// store writes every artifact and then the manifest. Failures are logged
// and otherwise ignored.
func (r *Runner) store(ctx context.Context, key string, res *Result, formats []string) {
	hooks := observability.Cache()
	for _, format := range formats {
		data := res.Artifacts[format]
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(key, format), data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			return
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}

	data, err := json.Marshal(manifest{ID: res.ID, Formats: formats, Stats: res.Stats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, min(r.TTL, cache.TTLManifest)); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	hooks.OnCacheSet(ctx, "manifest", len(data))
}

// keyOpts returns the cache key inputs of validated options.
func keyOpts(o *Options) cache.GalaxyKeyOpts {
	s := o.Settings
	data, _ := json.Marshal(struct {
		Profile    any
		Generation any
		Steps      any
	}{o.profile, s.Generation, s.Steps})
	return cache.GalaxyKeyOpts{
		Size:         o.Size,
		Arms:         o.Arms,
		Stars:        o.Stars,
		Type:         o.Type,
		Seed:         o.Seed,
		SettingsHash: cache.Hash(data),
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
