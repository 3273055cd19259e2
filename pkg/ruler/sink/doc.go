// Package sink renders a computed [layout.Layout] into output formats.
//
// # Formats
//
//   - SVG: [RenderSVG] draws the ruler panel with year markers and bars
//   - JSON: [RenderJSON] exports the layout for external tools and caching
//   - Text: [RenderText] prints a plain-text ruler for terminals and logs
//
// Basic usage:
//
//	l := layout.Build(data, state)
//	svg := sink.RenderSVG(l, sink.WithIndexLabels())
//
// # SVG Options
//
//   - [WithIndexLabels]: number each bar from 1, newest first
//   - [WithTooltips]: attach a <title> with date and counts to each bar
//   - [WithViewportHeight]: fix the panel height instead of fitting content
//   - [WithPanelWidth]: override the panel width
//
// Bars are colored by [layout.BarState]; the palette is exported as
// [StateColors] so other renderers can match it.
package sink
