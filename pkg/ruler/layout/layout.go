package layout

import (
	"github.com/matzehuels/timeruler/pkg/timeline"
)

const (
	// DefaultBaseHeight is the unmagnified bar height.
	DefaultBaseHeight = 8.0

	// DefaultGap is the spacing between consecutive bars.
	DefaultGap = 4.0

	// DefaultTopOffset is the resting translation of the bar stack.
	DefaultTopOffset = 70.0

	// DefaultRecentDays is how far back from today a day counts as recent.
	DefaultRecentDays = 30
)

// BarState is the display state of a bar.
type BarState string

const (
	StateNormal  BarState = "normal"
	StateRecent  BarState = "recent"
	StateHovered BarState = "hovered"
	StateCurrent BarState = "current"
	StateFocus   BarState = "focus"
)

// State is the transient view state a layout is computed for.
// Zero dates mean "none".
type State struct {
	Focus   timeline.Date `json:"focus"`
	Hovered timeline.Date `json:"hovered"`
	Current timeline.Date `json:"current"`
}

// Bar is one laid-out active day. Y is the top edge within the stack,
// before TranslateY is applied.
type Bar struct {
	Date          timeline.Date `json:"date"`
	Index         int           `json:"index"`
	EntryCount    int           `json:"entryCount"`
	PhotoCount    int           `json:"photoCount"`
	Magnification float64       `json:"magnification"`
	Height        float64       `json:"height"`
	Y             float64       `json:"y"`
	Fill          float64       `json:"fill"`
	Intensity     float64       `json:"intensity"`
	Recent        bool          `json:"recent"`
	State         BarState      `json:"state"`
}

// Layout is the complete output consumed by a renderer.
type Layout struct {
	Bars          []Bar        `json:"bars"`
	Years         []YearMarker `json:"years"`
	State         State        `json:"state"`
	OffsetY       float64      `json:"offsetY"`
	TranslateY    float64      `json:"translateY"`
	ContentHeight float64      `json:"contentHeight"`
	MaxEntryCount int          `json:"maxEntryCount"`
	BaseHeight    float64      `json:"baseHeight"`
	Gap           float64      `json:"gap"`
	Magnifier     Magnifier    `json:"magnifier"`
}

// Bar returns the bar for date.
func (l Layout) Bar(date timeline.Date) (Bar, bool) {
	for _, b := range l.Bars {
		if b.Date.Equal(date) {
			return b, true
		}
	}
	return Bar{}, false
}

// Option configures [Build].
type Option func(*config)

type config struct {
	magnifier   Magnifier
	baseHeight  float64
	gap         float64
	topOffset   float64
	today       timeline.Date
	recentDays  int
	currentYear int
	yearSpacing float64
}

// WithMagnifier sets the magnification curve.
func WithMagnifier(m Magnifier) Option { return func(c *config) { c.magnifier = m.withDefaults() } }

// WithBaseHeight sets the unmagnified bar height.
func WithBaseHeight(h float64) Option { return func(c *config) { c.baseHeight = h } }

// WithGap sets the spacing between bars.
func WithGap(g float64) Option { return func(c *config) { c.gap = g } }

// WithTopOffset sets the resting translation added to the focus offset.
func WithTopOffset(y float64) Option { return func(c *config) { c.topOffset = y } }

// WithToday sets the reference date for recent bars. Without it no bar is recent.
func WithToday(d timeline.Date) Option { return func(c *config) { c.today = d } }

// WithRecentDays sets the size of the recent window.
func WithRecentDays(n int) Option { return func(c *config) { c.recentDays = n } }

// WithCurrentYear sets the year that year marker opacity is measured from.
// Without it the latest year present is used.
func WithCurrentYear(y int) Option { return func(c *config) { c.currentYear = y } }

// WithYearSpacing sets the distance between year markers.
func WithYearSpacing(s float64) Option { return func(c *config) { c.yearSpacing = s } }

func newConfig(opts []Option) config {
	c := config{
		magnifier:   DefaultMagnifier(),
		baseHeight:  DefaultBaseHeight,
		gap:         DefaultGap,
		topOffset:   DefaultTopOffset,
		recentDays:  DefaultRecentDays,
		yearSpacing: DefaultYearSpacing,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Build lays out the active entries of data for the given state.
func Build(data timeline.Data, state State, opts ...Option) Layout {
	c := newConfig(opts)
	sorted := data.DisplayOrder()

	currentYear := c.currentYear
	if currentYear == 0 && len(data.Entries) > 0 {
		currentYear = data.Entries[len(data.Entries)-1].Date.Year()
	}

	maxEntries := 0
	for _, e := range data.Entries {
		maxEntries = max(maxEntries, e.EntryCount)
	}

	var recentFrom timeline.Date
	if !c.today.IsZero() {
		recentFrom = c.today.AddDays(-c.recentDays)
	}

	// A focus that is not an active day counts as no focus.
	focus := state.Focus
	if indexOf(sorted, focus) < 0 {
		focus = timeline.Date{}
	}

	bars := make([]Bar, len(sorted))
	y := 0.0
	for i, e := range sorted {
		m := c.magnifier.Factor(e.Date, focus)
		h := c.baseHeight * m
		recent := !recentFrom.IsZero() && !e.Date.Before(recentFrom)
		bars[i] = Bar{
			Date:          e.Date,
			Index:         i,
			EntryCount:    e.EntryCount,
			PhotoCount:    e.PhotoCount,
			Magnification: m,
			Height:        h,
			Y:             y,
			Fill:          photoFill(e.PhotoCount),
			Intensity:     ratio(e.EntryCount, maxEntries),
			Recent:        recent,
			State:         resolveState(e.Date, state, recent),
		}
		y += h
		if i < len(sorted)-1 {
			y += c.gap
		}
	}

	offset := c.magnifier.Offset(sorted, focus, c.baseHeight)

	return Layout{
		Bars:          bars,
		Years:         yearMarkers(data.Entries, currentYear, c.yearSpacing),
		State:         state,
		OffsetY:       offset,
		TranslateY:    c.topOffset + offset,
		ContentHeight: y,
		MaxEntryCount: maxEntries,
		BaseHeight:    c.baseHeight,
		Gap:           c.gap,
		Magnifier:     c.magnifier,
	}
}

func resolveState(date timeline.Date, s State, recent bool) BarState {
	switch {
	case date.Equal(s.Focus):
		return StateFocus
	case date.Equal(s.Current):
		return StateCurrent
	case date.Equal(s.Hovered):
		return StateHovered
	case recent:
		return StateRecent
	default:
		return StateNormal
	}
}

func photoFill(photos int) float64 {
	return min(ratio(photos, timeline.MaxPhotoCount), 1)
}

func ratio(n, d int) float64 {
	if d <= 0 || n <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}
