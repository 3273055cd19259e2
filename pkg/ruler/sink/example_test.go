package sink_test

import (
	"fmt"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/sink"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

func ExampleRenderText() {
	start := timeline.MustParseDate("2023-06-01")
	data := timeline.Data{
		Entries: []timeline.Entry{
			timeline.NewEntry(start, 1, 5),
			timeline.NewEntry(start.AddDays(1), 2, 10),
		},
		StartDate: start,
		EndDate:   start.AddDays(1),
		TotalDays: 2,
	}
	l := layout.Build(data, layout.State{}, layout.WithCurrentYear(2023))
	fmt.Print(string(sink.RenderText(l, 40)))
	// Output:
	// ── 2023 ────────────────────────────────
	//    1   2023-06-02 │▓▓▓▓▓▓▓▓▓▓▓▓│  2e 10p
	//    2   2023-06-01 │░░░░░░▓▓▓▓▓▓│  1e  5p
}
