package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
)

// DefaultTextWidth is the line width used when RenderText is given none.
const DefaultTextWidth = 48

const minTrack = 10

var stateMarks = map[layout.BarState]string{
	layout.StateFocus:   "▶",
	layout.StateCurrent: "●",
	layout.StateHovered: "›",
	layout.StateRecent:  "+",
	layout.StateNormal:  " ",
}

// RenderText prints the ruler as plain text, one block per bar, newest first.
// A bar spans round(magnification) lines; the photo fill is drawn right-aligned
// in a track sized to width. Year headings precede the first bar of each year.
func RenderText(l layout.Layout, width int) []byte {
	if width <= 0 {
		width = DefaultTextWidth
	}

	var buf bytes.Buffer
	year := 0
	for _, b := range l.Bars {
		if y := b.Date.Year(); y != year {
			year = y
			writeYear(&buf, y, yearOpacity(l.Years, y), width)
		}

		label := fmt.Sprintf("%4d %s %s ", b.Index+1, stateMarks[b.State], b.Date)
		suffix := fmt.Sprintf(" %2de %2dp", b.EntryCount, b.PhotoCount)
		track := max(width-runewidth.StringWidth(label)-runewidth.StringWidth(suffix)-2, minTrack)
		line := "│" + fillTrack(track, b.Fill, b.State == layout.StateNormal) + "│"

		buf.WriteString(label + line + suffix + "\n")
		pad := strings.Repeat(" ", runewidth.StringWidth(label))
		for i := 1; i < lines(b.Magnification); i++ {
			buf.WriteString(pad + line + "\n")
		}
	}

	if len(l.Bars) == 0 {
		buf.WriteString("(no activity)\n")
	}
	return buf.Bytes()
}

func writeYear(buf *bytes.Buffer, year int, opacity float64, width int) {
	// Fainter years get a lighter rule.
	rule := "─"
	if opacity < 0.5 {
		rule = "┄"
	}
	head := fmt.Sprintf("%s %d ", strings.Repeat(rule, 2), year)
	rest := max(width-runewidth.StringWidth(head), 0)
	buf.WriteString(head + strings.Repeat(rule, rest) + "\n")
}

func yearOpacity(years []layout.YearMarker, year int) float64 {
	for _, y := range years {
		if y.Year == year {
			return y.Opacity
		}
	}
	return 1
}

func fillTrack(n int, fill float64, muted bool) string {
	filled := int(math.Round(float64(n) * fill))
	filled = min(max(filled, 0), n)
	mark := "█"
	if muted {
		mark = "▓"
	}
	return strings.Repeat("░", n-filled) + strings.Repeat(mark, filled)
}

func lines(magnification float64) int {
	return max(int(math.Round(magnification)), 1)
}
