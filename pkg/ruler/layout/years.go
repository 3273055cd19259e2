package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/timeruler/pkg/timeline"
)

const (
	// MinYearOpacity is the floor for year marker opacity.
	MinYearOpacity = 0.3

	// YearFade is the opacity lost per year of distance from the current year.
	YearFade = 0.2

	// DefaultYearSpacing is the vertical distance between year markers.
	DefaultYearSpacing = 80.0

	// DefaultYearTop is the position of the first year marker.
	DefaultYearTop = 20.0
)

// YearMarker labels one calendar year on the ruler.
type YearMarker struct {
	Year    int     `json:"year"`
	Opacity float64 `json:"opacity"`
	Index   int     `json:"index"`
	Top     float64 `json:"top"`
}

// YearMarkers returns the distinct years present in entries, most recent
// first, with opacity max(0.3, 1 - |year-currentYear|*0.2) and the default
// marker spacing.
func YearMarkers(entries []timeline.Entry, currentYear int) []YearMarker {
	return yearMarkers(entries, currentYear, DefaultYearSpacing)
}

func yearMarkers(entries []timeline.Entry, currentYear int, spacing float64) []YearMarker {
	var years []int
	for _, e := range entries {
		if y := e.Date.Year(); !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })

	markers := make([]YearMarker, len(years))
	for i, y := range years {
		markers[i] = YearMarker{
			Year:    y,
			Opacity: YearOpacity(y, currentYear),
			Index:   i,
			Top:     float64(i)*spacing + DefaultYearTop,
		}
	}
	return markers
}

// YearOpacity returns the marker opacity for year seen from currentYear.
func YearOpacity(year, currentYear int) float64 {
	distance := math.Abs(float64(year - currentYear))
	// Round away binary noise so 1-2*0.2 reports as 0.6.
	o := math.Round((1-distance*YearFade)*1e9) / 1e9
	return math.Max(MinYearOpacity, o)
}
