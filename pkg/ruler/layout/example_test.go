package layout_test

import (
	"fmt"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

func ExampleMagnifier_Factor() {
	focus := timeline.MustParseDate("2023-06-03")
	m := layout.DefaultMagnifier()
	for _, s := range []string{"2023-06-03", "2023-06-01", "2023-06-10"} {
		fmt.Printf("%s %.1f\n", s, m.Factor(timeline.MustParseDate(s), focus))
	}
	// Output:
	// 2023-06-03 6.0
	// 2023-06-01 4.0
	// 2023-06-10 1.0
}

func ExampleYearMarkers() {
	entries := []timeline.Entry{
		timeline.NewEntry(timeline.MustParseDate("2022-03-01"), 1, 0),
		timeline.NewEntry(timeline.MustParseDate("2023-03-01"), 1, 0),
	}
	for _, m := range layout.YearMarkers(entries, 2024) {
		fmt.Printf("%d %.1f\n", m.Year, m.Opacity)
	}
	// Output:
	// 2023 0.8
	// 2022 0.6
}
