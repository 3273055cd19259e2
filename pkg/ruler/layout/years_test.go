package layout

import (
	"testing"

	"github.com/matzehuels/timeruler/pkg/timeline"
)

func TestYearMarkersScenario(t *testing.T) {
	data, err := timeline.NewGenerator(42, timeline.GeneratorOptions{}).Generate(timeline.DefaultStart, timeline.DefaultEnd)
	if err != nil {
		t.Fatal(err)
	}

	markers := YearMarkers(data.Entries, 2024)
	if len(markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(markers))
	}

	want := []YearMarker{
		{Year: 2023, Opacity: 0.8, Index: 0, Top: 20},
		{Year: 2022, Opacity: 0.6, Index: 1, Top: 100},
	}
	for i, m := range markers {
		if m != want[i] {
			t.Errorf("marker %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestYearOpacity(t *testing.T) {
	tests := []struct {
		year, current int
		want          float64
	}{
		{2024, 2024, 1},
		{2023, 2024, 0.8},
		{2025, 2024, 0.8},
		{2022, 2024, 0.6},
		{2021, 2024, 0.4},
		{2020, 2024, 0.3},
		{1990, 2024, 0.3},
	}

	for _, tt := range tests {
		if got := YearOpacity(tt.year, tt.current); got != tt.want {
			t.Errorf("YearOpacity(%d, %d) = %v, want %v", tt.year, tt.current, got, tt.want)
		}
	}
}

func TestYearMarkersEmpty(t *testing.T) {
	if got := YearMarkers(nil, 2024); len(got) != 0 {
		t.Errorf("YearMarkers(nil) = %v, want empty", got)
	}
}

func TestYearMarkersUnsortedInput(t *testing.T) {
	in := []timeline.Entry{
		timeline.NewEntry(d("2021-05-01"), 1, 0),
		timeline.NewEntry(d("2023-05-01"), 1, 0),
		timeline.NewEntry(d("2022-05-01"), 0, 0),
		timeline.NewEntry(d("2023-06-01"), 1, 0),
	}
	markers := YearMarkers(in, 2023)
	got := make([]int, len(markers))
	for i, m := range markers {
		got[i] = m.Year
	}
	if len(got) != 3 || got[0] != 2023 || got[1] != 2022 || got[2] != 2021 {
		t.Errorf("years = %v, want [2023 2022 2021]", got)
	}
}
