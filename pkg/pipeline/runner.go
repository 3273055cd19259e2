package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timeruler/pkg/cache"
	"github.com/matzehuels/timeruler/pkg/observability"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/sink"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute runs the complete generate → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	genStart := time.Now()
	data, dataHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Data = data
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.TotalDays = data.TotalDays
	result.Stats.ActiveDays = data.Stats().ActiveDays
	result.CacheInfo.DataHit = dataHit

	if hash, err := dataHash(data); err == nil {
		result.DataHash = hash
	}

	r.Logger.Info("generated timeline",
		"days", data.TotalDays,
		"active", result.Stats.ActiveDays,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BarCount = len(l.Bars)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"bars", len(l.Bars),
		"years", len(l.Years),
		"offset", l.OffsetY,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo produces the timeline snapshot and reports whether it came from cache.
// Loaded files and unseeded runs bypass the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (timeline.Data, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return timeline.Data{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Start.String(), opts.End.String())
	start := time.Now()

	data, hit, err := r.generate(ctx, opts)
	hooks.OnGenerateComplete(ctx, opts.Start.String(), opts.End.String(), data.TotalDays, time.Since(start), err)
	return data, hit, err
}

func (r *Runner) generate(ctx context.Context, opts Options) (timeline.Data, bool, error) {
	if opts.DataFile != "" {
		opts.Logger.Debug("loading timeline", "path", opts.DataFile)
		data, err := timeline.ReadDataFile(opts.DataFile)
		return data, false, err
	}

	if !opts.Cacheable() {
		g := timeline.NewGenerator(opts.Seed, opts.Generator)
		opts.Logger.Debug("generating unseeded timeline", "seed", g.Seed())
		data, err := g.Generate(opts.Start, opts.End)
		return data, false, err
	}

	cacheKey := r.Keyer.DataKey(opts.DataKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if data, err := timeline.Unmarshal(raw); err == nil {
				observability.Cache().OnCacheHit(ctx, "data")
				return data, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "data")

	data, err := timeline.NewGenerator(opts.Seed, opts.Generator).Generate(opts.Start, opts.End)
	if err != nil {
		return timeline.Data{}, false, err
	}

	if raw, err := timeline.Marshal(data); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, raw, cache.TTLData); err == nil {
			observability.Cache().OnCacheSet(ctx, "data", len(raw))
		}
	}
	return data, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (timeline.Data, error) {
	data, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return data, err
}

// LayoutWithCacheInfo computes the ruler layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, data timeline.Data, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Focus.String(), len(data.Active()))
	start := time.Now()

	hash, err := dataHash(data)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Focus.String(), time.Since(start), err)
		return layout.Layout{}, false, fmt.Errorf("serialize timeline for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	// Try cache first
	if raw, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := sink.ParseJSON(raw); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			hooks.OnLayoutComplete(ctx, opts.Focus.String(), time.Since(start), nil)
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l := layout.Build(data, opts.State(), opts.LayoutOptions()...)
	opts.Logger.Debug("layout built", "focus", opts.Focus, "offset", l.OffsetY, "height", l.ContentHeight)

	if raw, err := sink.RenderJSON(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, raw, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(raw))
		}
	}

	hooks.OnLayoutComplete(ctx, opts.Focus.String(), time.Since(start), nil)
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, data timeline.Data, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, data, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from layout data
	layoutData, err := sink.RenderJSON(l)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		raw, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = raw
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(l, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	for format, raw := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, raw, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(raw))
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set. It must
// run before validation, which installs a discard logger on nil.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func dataHash(data timeline.Data) (string, error) {
	raw, err := timeline.Marshal(data)
	if err != nil {
		return "", err
	}
	return cache.Hash(raw), nil
}
