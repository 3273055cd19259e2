// Package layout computes the focus-driven fisheye layout of a timeline ruler.
//
// # Overview
//
// The ruler stacks one bar per active day, newest first. Selecting a focus
// date magnifies the bars within a few days of it, and a single vertical
// offset shifts the whole stack so the focused bar stays put while its
// neighbors grow.
//
//	l := layout.Build(data, layout.State{Focus: focus},
//	    layout.WithCurrentYear(2024),
//	    layout.WithToday(timeline.Today()),
//	)
//	for _, b := range l.Bars {
//	    fmt.Println(b.Date, b.Height)
//	}
//
// # Magnification
//
// [Magnifier.Factor] is a linear falloff from [Magnifier.Peak] at the focus
// date to 1.0 at [Magnifier.Window] days away; beyond the window every bar
// keeps its base height. With no focus every factor is 1.0. The peak is a
// parameter: [DefaultPeak] (6.0) is the default and [WidePeak] (9.375) is the
// stronger variant.
//
// # Offset Compensation
//
// [Offset] sums the extra height gained by bars above the focus, adds half of
// the focus bar's own growth, subtracts half the growth below it and negates
// the result. It returns 0 when there is no focus or the focus date is not in
// the list.
//
// # Year Markers
//
// [YearMarkers] lists the distinct years present, newest first, with an
// opacity that fades by 0.2 per year of distance from the current year and
// bottoms out at 0.3. The current year is always passed in explicitly.
//
// # Bar State
//
// Each [Bar] carries a display [BarState] resolved with a fixed priority:
// focus, then current, then hovered, then recent, then normal.
package layout
