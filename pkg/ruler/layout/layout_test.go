package layout

import (
	"testing"

	"github.com/matzehuels/timeruler/pkg/timeline"
)

func scenarioData() timeline.Data {
	start := d("2023-06-01")
	var es []timeline.Entry
	for i := 0; i < 10; i++ {
		day := start.AddDays(i)
		switch day.String() {
		case "2023-06-01":
			es = append(es, timeline.NewEntry(day, 2, 5))
		case "2023-06-03":
			es = append(es, timeline.NewEntry(day, 4, 10))
		case "2023-06-10":
			es = append(es, timeline.NewEntry(day, 1, 0))
		default:
			es = append(es, timeline.NewEntry(day, 0, 0))
		}
	}
	return timeline.Data{Entries: es, StartDate: start, EndDate: start.AddDays(9), TotalDays: 10}
}

func TestBuildNoFocus(t *testing.T) {
	l := Build(scenarioData(), State{})

	if len(l.Bars) != 3 {
		t.Fatalf("got %d bars, want 3 (active days only)", len(l.Bars))
	}
	if l.Bars[0].Date.String() != "2023-06-10" || l.Bars[2].Date.String() != "2023-06-01" {
		t.Errorf("bars not newest first: %s .. %s", l.Bars[0].Date, l.Bars[2].Date)
	}
	for _, b := range l.Bars {
		if b.Magnification != 1 || b.Height != DefaultBaseHeight {
			t.Errorf("%s: magnification %v height %v without focus", b.Date, b.Magnification, b.Height)
		}
	}
	if l.OffsetY != 0 || l.TranslateY != DefaultTopOffset {
		t.Errorf("offset = %v translate = %v, want 0 and %v", l.OffsetY, l.TranslateY, DefaultTopOffset)
	}
	// 3 bars of 8 plus 2 gaps of 4.
	if l.ContentHeight != 32 {
		t.Errorf("ContentHeight = %v, want 32", l.ContentHeight)
	}
}

func TestBuildFocus(t *testing.T) {
	focus := d("2023-06-03")
	l := Build(scenarioData(), State{Focus: focus})

	b, ok := l.Bar(focus)
	if !ok {
		t.Fatal("focus bar missing")
	}
	if b.Magnification != DefaultPeak || b.Height != DefaultBaseHeight*DefaultPeak {
		t.Errorf("focus bar = %+v", b)
	}
	if b.State != StateFocus {
		t.Errorf("focus bar state = %s", b.State)
	}

	near, _ := l.Bar(d("2023-06-01"))
	if near.Magnification <= 1 || near.Magnification >= DefaultPeak {
		t.Errorf("near bar magnification = %v", near.Magnification)
	}
	far, _ := l.Bar(d("2023-06-10"))
	if far.Magnification != 1 {
		t.Errorf("far bar magnification = %v, want 1", far.Magnification)
	}

	if !approx(l.OffsetY, -8) || !approx(l.TranslateY, DefaultTopOffset-8) {
		t.Errorf("offset = %v translate = %v", l.OffsetY, l.TranslateY)
	}

	// Y positions stack heights plus gaps.
	if l.Bars[1].Y != l.Bars[0].Height+DefaultGap {
		t.Errorf("second bar Y = %v", l.Bars[1].Y)
	}
	last := l.Bars[len(l.Bars)-1]
	if l.ContentHeight != last.Y+last.Height {
		t.Errorf("ContentHeight = %v, want %v", l.ContentHeight, last.Y+last.Height)
	}
}

func TestBuildFocusAbsent(t *testing.T) {
	// 2023-06-02 is inactive, so it is not in the display order.
	l := Build(scenarioData(), State{Focus: d("2023-06-02")})
	if l.OffsetY != 0 {
		t.Errorf("OffsetY = %v, want 0 for absent focus", l.OffsetY)
	}
	for _, b := range l.Bars {
		if b.Magnification != 1 {
			t.Errorf("bar %s magnification = %v, want 1", b.Date, b.Magnification)
		}
		if b.Height != DefaultBaseHeight {
			t.Errorf("bar %s height = %v, want %v", b.Date, b.Height, DefaultBaseHeight)
		}
		if b.State == StateFocus {
			t.Errorf("bar %s has focus state", b.Date)
		}
	}
	if !l.State.Focus.Equal(d("2023-06-02")) {
		t.Errorf("State.Focus = %s, want the requested date", l.State.Focus)
	}
}

func TestBuildFillAndIntensity(t *testing.T) {
	l := Build(scenarioData(), State{})

	tests := []struct {
		date      string
		fill      float64
		intensity float64
	}{
		{"2023-06-03", 1, 1},
		{"2023-06-01", 0.5, 0.5},
		{"2023-06-10", 0, 0.25},
	}
	for _, tt := range tests {
		b, _ := l.Bar(d(tt.date))
		if b.Fill != tt.fill || b.Intensity != tt.intensity {
			t.Errorf("%s: fill %v intensity %v, want %v %v", tt.date, b.Fill, b.Intensity, tt.fill, tt.intensity)
		}
	}
	if l.MaxEntryCount != 4 {
		t.Errorf("MaxEntryCount = %d, want 4", l.MaxEntryCount)
	}
}

func TestBuildStatePriority(t *testing.T) {
	day := d("2023-06-03")
	opts := []Option{WithToday(d("2023-06-10"))}

	tests := []struct {
		name  string
		state State
		want  BarState
	}{
		{"focus wins", State{Focus: day, Current: day, Hovered: day}, StateFocus},
		{"current over hover", State{Current: day, Hovered: day}, StateCurrent},
		{"hovered over recent", State{Hovered: day}, StateHovered},
		{"recent", State{}, StateRecent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := Build(scenarioData(), tt.state, opts...).Bar(day)
			if b.State != tt.want {
				t.Errorf("state = %s, want %s", b.State, tt.want)
			}
		})
	}

	b, _ := Build(scenarioData(), State{}).Bar(day)
	if b.State != StateNormal || b.Recent {
		t.Errorf("without today: state = %s recent = %v, want normal", b.State, b.Recent)
	}
}

func TestBuildRecentWindow(t *testing.T) {
	l := Build(scenarioData(), State{}, WithToday(d("2023-07-03")), WithRecentDays(30))
	if b, _ := l.Bar(d("2023-06-03")); !b.Recent {
		t.Error("2023-06-03 is 30 days before today and should be recent")
	}
	if b, _ := l.Bar(d("2023-06-01")); b.Recent {
		t.Error("2023-06-01 is 32 days before today and should not be recent")
	}
}

func TestBuildEmpty(t *testing.T) {
	l := Build(timeline.Data{}, State{Focus: d("2023-06-03")})
	if len(l.Bars) != 0 || l.OffsetY != 0 || l.ContentHeight != 0 || l.MaxEntryCount != 0 {
		t.Errorf("empty layout = %+v", l)
	}

	zero := timeline.Data{
		Entries:   []timeline.Entry{timeline.NewEntry(d("2023-06-03"), 0, 0)},
		StartDate: d("2023-06-03"), EndDate: d("2023-06-03"), TotalDays: 1,
	}
	l = Build(zero, State{})
	if len(l.Bars) != 0 || l.MaxEntryCount != 0 {
		t.Errorf("all-zero layout = %+v", l)
	}
	if len(l.Years) != 1 {
		t.Errorf("all-zero layout should still mark its year: %+v", l.Years)
	}
}

func TestBuildOptions(t *testing.T) {
	l := Build(scenarioData(), State{Focus: d("2023-06-03")},
		WithBaseHeight(10),
		WithGap(0),
		WithTopOffset(0),
		WithMagnifier(Magnifier{Peak: 2, Window: 1}),
		WithCurrentYear(2025),
		WithYearSpacing(50),
	)

	b, _ := l.Bar(d("2023-06-03"))
	if b.Height != 20 {
		t.Errorf("focus height = %v, want 20", b.Height)
	}
	// Only the focus bar grows; extra 10 halves to 5.
	if l.OffsetY != -5 || l.TranslateY != -5 {
		t.Errorf("offset = %v translate = %v, want -5", l.OffsetY, l.TranslateY)
	}
	if l.ContentHeight != 40 {
		t.Errorf("ContentHeight = %v, want 40", l.ContentHeight)
	}
	if l.Years[0].Opacity != 0.6 {
		t.Errorf("2023 opacity from 2025 = %v, want 0.6", l.Years[0].Opacity)
	}
}
