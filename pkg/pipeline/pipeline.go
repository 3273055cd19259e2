// Package pipeline provides the generate → layout → render pipeline for timeruler.
//
// The CLI and the preview server both run timelines through this package so
// defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: Produce a timeline snapshot (synthetic, or loaded from a file)
//  2. Layout: Compute bar sizes, focus offset and year markers
//  3. Render: Generate output in various formats (SVG, JSON, text)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Seed:    42,
//	    Focus:   timeline.MustParseDate("2023-06-03"),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	data, err := runner.Generate(ctx, opts)
//	l, err := runner.Layout(ctx, data, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timeruler/pkg/cache"
	"github.com/matzehuels/timeruler/pkg/errors"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/sink"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultSeed is the generator seed used when none is given.
	// Zero asks the generator for a random seed.
	DefaultSeed = uint64(0)

	// DefaultTextWidth is the line width of the text format.
	DefaultTextWidth = sink.DefaultTextWidth
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Generate options
	Start     timeline.Date             `json:"start,omitempty"`
	End       timeline.Date             `json:"end,omitempty"`
	Seed      uint64                    `json:"seed,omitempty"`
	Generator timeline.GeneratorOptions `json:"generator,omitempty"`
	DataFile  string                    `json:"data_file,omitempty"` // Load instead of generating
	Refresh   bool                      `json:"refresh,omitempty"`

	// Layout options
	Focus       timeline.Date `json:"focus,omitempty"`
	Hovered     timeline.Date `json:"hovered,omitempty"`
	Current     timeline.Date `json:"current,omitempty"`
	Peak        float64       `json:"peak,omitempty"`
	Window      int           `json:"window,omitempty"`
	BaseHeight  float64       `json:"base_height,omitempty"`
	Gap         float64       `json:"gap,omitempty"`
	TopOffset   float64       `json:"top_offset,omitempty"`
	Today       timeline.Date `json:"today,omitempty"`
	RecentDays  int           `json:"recent_days,omitempty"`
	CurrentYear int           `json:"current_year,omitempty"`
	YearSpacing float64       `json:"year_spacing,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	IndexLabels bool     `json:"index_labels,omitempty"`
	Tooltips    bool     `json:"tooltips,omitempty"`
	TextWidth   int      `json:"text_width,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	Clock  func() time.Time `json:"-"` // Source for Today and CurrentYear defaults

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the timeline snapshot.
	Data timeline.Data

	// DataHash is the content hash of the snapshot.
	DataHash string

	// Layout is the computed ruler layout.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TotalDays    int
	ActiveDays   int
	BarCount     int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DataHit   bool // Whether the timeline came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, text)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMagnifier checks the magnification parameters.
func ValidateMagnifier(peak float64, window int) error {
	if peak < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "peak must be at least 1, got %v", peak)
	}
	if window < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "window must be at least 1 day, got %d", window)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the date range and applies generate defaults.
func (o *Options) ValidateForGenerate() error {
	if o.DataFile == "" {
		if o.Start.IsZero() {
			o.Start = timeline.DefaultStart
		}
		if o.End.IsZero() {
			o.End = timeline.DefaultEnd
		}
		if o.End.Before(o.Start) {
			return errors.New(errors.ErrCodeInvalidRange, "end date %s is before start date %s", o.End, o.Start)
		}
	}
	o.Generator = o.Generator.WithDefaults()
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Peak == 0 {
		o.Peak = layout.DefaultPeak
	}
	if o.Window == 0 {
		o.Window = layout.DefaultWindow
	}
	if o.BaseHeight == 0 {
		o.BaseHeight = layout.DefaultBaseHeight
	}
	if o.Gap == 0 {
		o.Gap = layout.DefaultGap
	}
	if o.TopOffset == 0 {
		o.TopOffset = layout.DefaultTopOffset
	}
	if o.RecentDays == 0 {
		o.RecentDays = layout.DefaultRecentDays
	}
	if o.YearSpacing == 0 {
		o.YearSpacing = layout.DefaultYearSpacing
	}
	now := o.now()
	if o.Today.IsZero() {
		o.Today = timeline.DateOf(now)
	}
	if o.CurrentYear == 0 {
		o.CurrentYear = now.Year()
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.BaseHeight < 0 || o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "base height and gap must not be negative")
	}
	return ValidateMagnifier(o.Peak, o.Window)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.TextWidth == 0 {
		o.TextWidth = DefaultTextWidth
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// State returns the view state the layout is computed for.
func (o *Options) State() layout.State {
	return layout.State{Focus: o.Focus, Hovered: o.Hovered, Current: o.Current}
}

// Magnifier returns the magnification curve.
func (o *Options) Magnifier() layout.Magnifier {
	return layout.Magnifier{Peak: o.Peak, Window: o.Window}
}

// LayoutOptions converts the layout fields to [layout.Build] options.
func (o *Options) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithMagnifier(o.Magnifier()),
		layout.WithBaseHeight(o.BaseHeight),
		layout.WithGap(o.Gap),
		layout.WithTopOffset(o.TopOffset),
		layout.WithToday(o.Today),
		layout.WithRecentDays(o.RecentDays),
		layout.WithCurrentYear(o.CurrentYear),
		layout.WithYearSpacing(o.YearSpacing),
	}
}

// Cacheable reports whether the generated timeline is repeatable and may be cached.
func (o *Options) Cacheable() bool {
	return o.DataFile == "" && o.Seed != 0
}

// DataKeyOpts returns cache key options for timeline generation.
func (o *Options) DataKeyOpts() cache.DataKeyOpts {
	g := o.Generator
	return cache.DataKeyOpts{
		Start:            o.Start.String(),
		End:              o.End.String(),
		Seed:             o.Seed,
		BaseProbability:  g.BaseProbability,
		WeekendFactor:    g.WeekendFactor,
		HolidayFactor:    g.HolidayFactor,
		ClusterFactor:    g.ClusterFactor,
		PhotoProbability: g.PhotoProbability,
		MaxEntries:       g.MaxEntries,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Focus:       o.Focus.String(),
		Hovered:     o.Hovered.String(),
		Current:     o.Current.String(),
		Peak:        o.Peak,
		Window:      o.Window,
		BaseHeight:  o.BaseHeight,
		Gap:         o.Gap,
		TopOffset:   o.TopOffset,
		Today:       o.Today.String(),
		RecentDays:  o.RecentDays,
		CurrentYear: o.CurrentYear,
		YearSpacing: o.YearSpacing,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.IndexLabels = o.IndexLabels
		k.Tooltips = o.Tooltips
	case FormatText:
		k.Width = o.TextWidth
	}
	return k
}

func (o *Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// String summarizes the options for log output.
func (o *Options) String() string {
	return fmt.Sprintf("range=%s..%s seed=%d focus=%s peak=%v formats=%v", o.Start, o.End, o.Seed, o.Focus, o.Peak, o.Formats)
}
