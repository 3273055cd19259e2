// Package view holds the interactive state of a ruler: which day is focused,
// hovered and current, and the click handler fired outward on selection.
//
// A View is owned by a single event loop (a terminal UI or one preview
// session) and is not safe for concurrent use.
package view

import (
	"math/rand/v2"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// Options configures a View.
type Options struct {
	// Current is the initially current date, if any.
	Current timeline.Date

	// OnDateClick is called after a click has updated focus and current date.
	OnDateClick func(timeline.Date)

	// Layout options applied on every [View.Layout] call.
	Layout []layout.Option
}

// View is the mutable presentation state over an immutable snapshot.
type View struct {
	data  timeline.Data
	order []timeline.Entry
	state layout.State
	opts  Options
}

// Summary describes one day for the "current focus" panel.
type Summary struct {
	Date       timeline.Date `json:"date"`
	EntryCount int           `json:"entryCount"`
	PhotoCount int           `json:"photoCount"`
	HasPhotos  bool          `json:"hasPhotos"`
}

// New creates a view over data. The initial focus is the middle bar of the
// display order, falling back to opts.Current when there are no active days.
func New(data timeline.Data, opts Options) *View {
	v := &View{
		data:  data,
		order: data.DisplayOrder(),
		opts:  opts,
	}
	v.state.Current = opts.Current
	v.state.Focus = v.DefaultFocus()
	return v
}

// DefaultFocus returns the focus a fresh view starts with.
func (v *View) DefaultFocus() timeline.Date {
	if len(v.order) > 0 {
		return v.order[len(v.order)/2].Date
	}
	return v.state.Current
}

// Data returns the snapshot the view was built on.
func (v *View) Data() timeline.Data { return v.data }

// DisplayOrder returns the active entries, newest first.
func (v *View) DisplayOrder() []timeline.Entry { return v.order }

// State returns the current focus, hover and current dates.
func (v *View) State() layout.State { return v.state }

// Click selects date: it becomes both the focus and the current date, then
// OnDateClick fires. Dates outside the display order are accepted but lay
// out as no focus: every bar keeps its base height and the offset is 0.
func (v *View) Click(date timeline.Date) {
	v.state.Focus = date
	v.state.Current = date
	if v.opts.OnDateClick != nil {
		v.opts.OnDateClick(date)
	}
}

// Hover marks date as hovered.
func (v *View) Hover(date timeline.Date) { v.state.Hovered = date }

// Leave clears the hover state.
func (v *View) Leave() { v.state.Hovered = timeline.Date{} }

// ClearFocus removes the focus so every bar has its base height.
func (v *View) ClearFocus() { v.state.Focus = timeline.Date{} }

// SetFocus moves the focus without firing OnDateClick. A zero date clears it.
func (v *View) SetFocus(date timeline.Date) { v.state.Focus = date }

// SetCurrent changes the current date without moving the focus.
func (v *View) SetCurrent(date timeline.Date) { v.state.Current = date }

// MoveHover moves the hover delta bars through the display order, starting
// from the hovered bar, else the focus, else the first bar. Positive deltas
// move toward older days. The result is clamped to the ends.
func (v *View) MoveHover(delta int) timeline.Date {
	if len(v.order) == 0 {
		return timeline.Date{}
	}
	i := v.index(v.state.Hovered)
	if i < 0 {
		i = v.index(v.state.Focus)
	}
	if i < 0 {
		i = 0
		if delta > 0 {
			delta--
		}
	}
	i = min(max(i+delta, 0), len(v.order)-1)
	v.state.Hovered = v.order[i].Date
	return v.state.Hovered
}

// RandomCurrent picks a random active day as the current date.
// It reports false and changes nothing when no day is active.
func (v *View) RandomCurrent(rng *rand.Rand) (timeline.Date, bool) {
	if len(v.order) == 0 {
		return timeline.Date{}, false
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(v.order))
	} else {
		i = rand.IntN(len(v.order))
	}
	v.state.Current = v.order[i].Date
	return v.state.Current, true
}

// Layout computes the ruler layout for the current state.
func (v *View) Layout() layout.Layout {
	return layout.Build(v.data, v.state, v.opts.Layout...)
}

// Summary returns the panel data for the current date. Days missing from the
// snapshot report zero counts.
func (v *View) Summary() Summary {
	return v.SummaryOf(v.state.Current)
}

// SummaryOf returns the panel data for date.
func (v *View) SummaryOf(date timeline.Date) Summary {
	e, _ := v.data.Lookup(date)
	return Summary{
		Date:       date,
		EntryCount: e.EntryCount,
		PhotoCount: e.PhotoCount,
		HasPhotos:  e.HasPhotos,
	}
}

func (v *View) index(date timeline.Date) int {
	if date.IsZero() {
		return -1
	}
	for i, e := range v.order {
		if e.Date.Equal(date) {
			return i
		}
	}
	return -1
}
