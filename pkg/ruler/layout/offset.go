package layout

import "github.com/matzehuels/timeruler/pkg/timeline"

// Offset returns the vertical shift that keeps the focus bar anchored,
// using the default magnifier. See [Magnifier.Offset].
func Offset(sorted []timeline.Entry, focus timeline.Date, baseHeight float64) float64 {
	return DefaultMagnifier().Offset(sorted, focus, baseHeight)
}

// Offset returns the vertical shift applied to the whole stack of sorted
// entries so the bar at focus keeps its position as magnification grows the
// bars around it.
//
// With extra(e) = baseHeight*Factor(e) - baseHeight, the shift is the
// negation of
//
//	sum(extra before focus) + extra(focus)/2 - sum(extra after focus)/2
//
// It is 0 when focus is the zero Date, is absent from sorted, or is the only
// entry. Runs in O(n).
func (m Magnifier) Offset(sorted []timeline.Entry, focus timeline.Date, baseHeight float64) float64 {
	if focus.IsZero() {
		return 0
	}
	idx := indexOf(sorted, focus)
	if idx < 0 || len(sorted) == 1 {
		return 0
	}

	extra := func(e timeline.Entry) float64 {
		return baseHeight*m.Factor(e.Date, focus) - baseHeight
	}

	var total float64
	for _, e := range sorted[:idx] {
		total += extra(e)
	}
	total += extra(sorted[idx]) / 2
	for _, e := range sorted[idx+1:] {
		total -= extra(e) / 2
	}
	return -total
}

func indexOf(entries []timeline.Entry, date timeline.Date) int {
	for i, e := range entries {
		if e.Date.Equal(date) {
			return i
		}
	}
	return -1
}
