package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/timeruler/pkg/ruler/view"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

var date = timeline.MustParseDate

// browseData has active days 06-01, 06-02, 06-04, 06-05 and 06-07.
func browseData() timeline.Data {
	start := date("2023-06-01")
	counts := []int{1, 2, 0, 3, 1, 0, 4}
	es := make([]timeline.Entry, len(counts))
	for i, c := range counts {
		es[i] = timeline.NewEntry(start.AddDays(i), c, c)
	}
	return timeline.Data{Entries: es, StartDate: start, EndDate: start.AddDays(6), TotalDays: len(counts)}
}

// activeData has n consecutive active days starting 2023-01-01.
func activeData(n int) timeline.Data {
	start := date("2023-01-01")
	es := make([]timeline.Entry, n)
	for i := range es {
		es[i] = timeline.NewEntry(start.AddDays(i), 1, 0)
	}
	return timeline.Data{Entries: es, StartDate: start, EndDate: start.AddDays(n - 1), TotalDays: n}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *browseModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestBrowseHoverAndClick(t *testing.T) {
	var clicked []timeline.Date
	m := newBrowseModel(browseData(), view.Options{
		OnDateClick: func(d timeline.Date) { clicked = append(clicked, d) },
	})
	// Display order 06-07, 06-05, 06-04, 06-02, 06-01; default focus 06-04.
	if got := m.view.State().Focus; !got.Equal(date("2023-06-04")) {
		t.Fatalf("initial focus = %s", got)
	}

	send(m, "down")
	if got := m.view.State().Hovered; !got.Equal(date("2023-06-02")) {
		t.Errorf("hover after down = %s, want 2023-06-02", got)
	}
	send(m, "k", "k")
	if got := m.view.State().Hovered; !got.Equal(date("2023-06-05")) {
		t.Errorf("hover after k k = %s, want 2023-06-05", got)
	}

	send(m, "enter")
	s := m.view.State()
	if !s.Focus.Equal(date("2023-06-05")) || !s.Current.Equal(date("2023-06-05")) {
		t.Errorf("after enter focus=%s current=%s, want 2023-06-05", s.Focus, s.Current)
	}
	if len(clicked) != 1 || !clicked[0].Equal(date("2023-06-05")) {
		t.Errorf("OnDateClick calls = %v", clicked)
	}
	if m.status != "focused 2023-06-05" {
		t.Errorf("status = %q", m.status)
	}

	send(m, "esc")
	if !m.view.State().Hovered.IsZero() {
		t.Error("esc should clear the hover")
	}
}

func TestBrowseClearAndRandom(t *testing.T) {
	m := newBrowseModel(browseData(), view.Options{})

	send(m, "c")
	if !m.view.State().Focus.IsZero() {
		t.Error("c should clear the focus")
	}

	send(m, "r")
	cur := m.view.State().Current
	if _, ok := m.view.Data().Lookup(cur); !ok || cur.IsZero() {
		t.Fatalf("r picked %s, want an active day", cur)
	}
	if !m.view.State().Hovered.Equal(cur) {
		t.Error("r should hover the new current day")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newBrowseModel(browseData(), view.Options{})
	cmd := send(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBrowseScroll(t *testing.T) {
	m := newBrowseModel(activeData(30), view.Options{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: browseChrome + 5})
	if m.rows() != 5 {
		t.Fatalf("rows = %d, want 5", m.rows())
	}

	// Default focus is index 15; ten steps down hover index 25.
	for range 10 {
		send(m, "down")
	}
	if m.offset != 21 {
		t.Errorf("offset = %d, want 21", m.offset)
	}

	out := m.View()
	hovered := m.view.State().Hovered.String()
	if !strings.Contains(out, hovered) {
		t.Errorf("view does not show hovered day %s", hovered)
	}
	if gone := m.view.DisplayOrder()[5].Date.String(); strings.Contains(out, gone) {
		t.Errorf("view shows %s, which is scrolled off", gone)
	}
}

func TestBrowseViewPanel(t *testing.T) {
	m := newBrowseModel(browseData(), view.Options{Current: date("2023-06-07")})
	out := m.View()
	for _, want := range []string{"Timeruler", "2023-06-07", "4 entries", "4 photos", "focus 2023-06-04"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.view.SetCurrent(timeline.Date{})
	if !strings.Contains(m.View(), "no current day") {
		t.Error("panel should report no current day")
	}
}

func TestBrowseEmpty(t *testing.T) {
	empty := timeline.Data{
		Entries:   []timeline.Entry{timeline.NewEntry(date("2023-06-01"), 0, 0)},
		StartDate: date("2023-06-01"), EndDate: date("2023-06-01"), TotalDays: 1,
	}
	m := newBrowseModel(empty, view.Options{})
	send(m, "down", "enter", "r")
	if !m.view.State().Hovered.IsZero() || !m.view.State().Focus.IsZero() {
		t.Errorf("empty timeline state = %+v", m.view.State())
	}
	if !strings.Contains(m.View(), "(no activity)") {
		t.Error("view should report no activity")
	}
}
