package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
)

// Panel geometry.
const (
	DefaultPanelWidth = 192.0
	barLeft           = 32.0
	barWidth          = 64.0
	bottomPadding     = 20.0
	yearX             = 16.0
)

const (
	trackColor = "#e5e7eb"
	panelColor = "#f9fafb"
	edgeColor  = "#d1d5db"
	labelColor = "#4b5563"
	yearColor  = "#374151"
)

// StateColors maps each bar state to its photo fill color.
var StateColors = map[layout.BarState]string{
	layout.StateFocus:   "#a855f7",
	layout.StateCurrent: "#3b82f6",
	layout.StateHovered: "#60a5fa",
	layout.StateRecent:  "#22c55e",
	layout.StateNormal:  "#eab308",
}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	indexLabels    bool
	tooltips       bool
	viewportHeight float64
	width          float64
}

// WithIndexLabels numbers each bar.
func WithIndexLabels() SVGOption { return func(r *svgRenderer) { r.indexLabels = true } }

// WithTooltips adds a title element with the date and counts to each bar.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithViewportHeight fixes the panel height. Bars translated outside it are clipped.
func WithViewportHeight(h float64) SVGOption { return func(r *svgRenderer) { r.viewportHeight = h } }

// WithPanelWidth sets the panel width.
func WithPanelWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// RenderSVG draws the ruler described by l.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultPanelWidth}
	for _, opt := range opts {
		opt(&r)
	}

	height := r.viewportHeight
	if height <= 0 {
		height = contentHeight(l)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, height, r.width, height)
	fmt.Fprintf(&buf, `  <rect class="panel" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", r.width, height, panelColor)
	fmt.Fprintf(&buf, `  <line x1="0.5" y1="0" x2="0.5" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n", height, edgeColor)

	renderYears(&buf, l.Years)
	r.renderBars(&buf, l)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func contentHeight(l layout.Layout) float64 {
	h := math.Max(l.TranslateY, 0) + l.ContentHeight + bottomPadding
	if n := len(l.Years); n > 0 {
		h = math.Max(h, l.Years[n-1].Top+bottomPadding*2)
	}
	return math.Ceil(h)
}

func renderYears(buf *bytes.Buffer, years []layout.YearMarker) {
	for _, y := range years {
		fmt.Fprintf(buf, `  <text class="year" x="%.1f" y="%.1f" transform="rotate(-90 %.1f %.1f)" text-anchor="middle" font-family="sans-serif" font-size="14" font-weight="bold" fill="%s" opacity="%.2f">%d</text>`+"\n",
			yearX, y.Top, yearX, y.Top, yearColor, y.Opacity, y.Year)
	}
}

func (r *svgRenderer) renderBars(buf *bytes.Buffer, l layout.Layout) {
	fmt.Fprintf(buf, `  <g class="bars" transform="translate(0 %.2f)">`+"\n", l.TranslateY)
	for _, b := range l.Bars {
		fmt.Fprintf(buf, `    <g class="bar %s" data-date="%s">`+"\n", b.State, b.Date)
		if r.tooltips {
			fmt.Fprintf(buf, `      <title>%s</title>`+"\n", html.EscapeString(tooltip(b)))
		}
		fmt.Fprintf(buf, `      <rect x="%.1f" y="%.2f" width="%.1f" height="%.2f" rx="2" fill="%s"/>`+"\n",
			barLeft, b.Y, barWidth, b.Height, trackColor)
		if b.Fill > 0 {
			w := barWidth * b.Fill
			fmt.Fprintf(buf, `      <rect class="photos" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="%s"/>`+"\n",
				barLeft+barWidth-w, b.Y, w, b.Height, StateColors[b.State])
		}
		if r.indexLabels {
			fmt.Fprintf(buf, `      <text x="%.1f" y="%.2f" text-anchor="end" dominant-baseline="middle" font-family="sans-serif" font-size="10" font-weight="bold" fill="%s">%d</text>`+"\n",
				barLeft-4, b.Y+b.Height/2, labelColor, b.Index+1)
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

func tooltip(b layout.Bar) string {
	s := fmt.Sprintf("%s: %d entries", b.Date, b.EntryCount)
	if b.PhotoCount > 0 {
		s += fmt.Sprintf(", %d photos", b.PhotoCount)
	}
	if b.Recent {
		s += " (recent)"
	}
	return s
}
