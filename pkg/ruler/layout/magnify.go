package layout

import "github.com/matzehuels/timeruler/pkg/timeline"

const (
	// DefaultPeak is the magnification of the focus bar.
	DefaultPeak = 6.0

	// WidePeak is the stronger peak variant.
	WidePeak = 9.375

	// DefaultWindow is the distance in days at which magnification reaches 1.0.
	DefaultWindow = 5
)

// Magnifier maps the day distance from the focus to a scale factor.
// The zero value uses DefaultPeak and DefaultWindow.
type Magnifier struct {
	Peak   float64 `json:"peak"`
	Window int     `json:"window"`
}

// DefaultMagnifier returns a Magnifier with the default peak and window.
func DefaultMagnifier() Magnifier {
	return Magnifier{Peak: DefaultPeak, Window: DefaultWindow}
}

func (m Magnifier) withDefaults() Magnifier {
	if m.Peak == 0 {
		m.Peak = DefaultPeak
	}
	if m.Window <= 0 {
		m.Window = DefaultWindow
	}
	return m
}

// Factor returns the scale factor for a bar on date entry given focus.
// It is 1 when focus is the zero Date or entry is Window or more days away,
// and Peak when entry is the focus date.
func (m Magnifier) Factor(entry, focus timeline.Date) float64 {
	if focus.IsZero() {
		return 1
	}
	m = m.withDefaults()

	d := timeline.DaysBetween(focus, entry)
	if d < 0 {
		d = -d
	}
	if d >= m.Window {
		return 1
	}
	return 1 + (m.Peak-1)*(1-float64(d)/float64(m.Window))
}

// Magnification returns the factor for entry using the default magnifier.
func Magnification(entry, focus timeline.Date) float64 {
	return DefaultMagnifier().Factor(entry, focus)
}
