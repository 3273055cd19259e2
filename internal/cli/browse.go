package cli

import (
	"fmt"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/view"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// browseCommand creates the browse command that opens the interactive ruler.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		df dataFlags
		rf rulerFlags
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore the ruler interactively in the terminal",
		Long: `Open the ruler in a full-screen terminal view.

Move the hover with ↑/↓ (or j/k), press enter to focus the hovered day,
c to clear the focus, r to jump to a random day and q to quit.`,
		Example: `  timeruler browse --seed 42
  timeruler browse --data timeline.json --wide`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.baseOptions(cmd, &df)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, df.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Generate(ctx, opts)
			if err != nil {
				return err
			}
			if err := rf.apply(cmd, &opts, data); err != nil {
				return err
			}
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}

			m := newBrowseModel(data, view.Options{
				Current: opts.Current,
				Layout:  opts.LayoutOptions(),
			})
			m.view.SetFocus(opts.Focus)
			m.view.Hover(opts.Hovered)
			if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				m.height = h
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(*browseModel); ok {
				if d := fm.view.State().Focus; !d.IsZero() {
					printInfo("Last focus %s", d)
				}
			}
			return nil
		},
	}

	df.register(cmd)
	rf.register(cmd)
	return cmd
}

// Browse styles
var (
	browseFocusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseCurrentStyle = lipgloss.NewStyle().Foreground(colorGreen)
	browseHoverStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	browseRecentStyle  = lipgloss.NewStyle().Foreground(colorBlue)
	browseNormalStyle  = lipgloss.NewStyle().Foreground(colorGray)
	browsePanelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

const (
	browseChrome   = 9  // title, help, panel and spacing lines
	browseMinRows  = 5
	browseLabelCol = 16 // "▸ ● 2006-01-02 " plus a year tag
	browseUnit     = 3  // track cells per unit of magnification
)

// =============================================================================
// browseModel - Interactive ruler
// =============================================================================

// browseModel is the bubbletea model over a view.View. It is a pointer so the
// click callback can report back into the model.
type browseModel struct {
	view   *view.View
	width  int
	height int
	offset int
	status string
}

func newBrowseModel(data timeline.Data, opts view.Options) *browseModel {
	m := &browseModel{width: 80, height: 24}
	next := opts.OnDateClick
	opts.OnDateClick = func(d timeline.Date) {
		m.status = "focused " + d.String()
		if next != nil {
			next(d)
		}
	}
	m.view = view.New(data, opts)
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.view.MoveHover(-1)
		case "down", "j":
			m.view.MoveHover(1)
		case "pgup":
			m.view.MoveHover(-m.rows())
		case "pgdown":
			m.view.MoveHover(m.rows())
		case "enter", " ":
			if d := m.view.State().Hovered; !d.IsZero() {
				m.view.Click(d)
			}
		case "esc":
			m.view.Leave()
		case "c":
			m.view.ClearFocus()
			m.status = "focus cleared"
		case "r":
			if d, ok := m.view.RandomCurrent(nil); ok {
				m.view.Hover(d)
				m.status = "current " + d.String()
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	m.scroll()
	return m, nil
}

// rows is the number of bar rows that fit on screen.
func (m *browseModel) rows() int {
	return max(m.height-browseChrome, browseMinRows)
}

// scroll keeps the hovered bar, else the focus, inside the visible window.
func (m *browseModel) scroll() {
	order := m.view.DisplayOrder()
	s := m.view.State()
	cursor := indexOf(order, s.Hovered)
	if cursor < 0 {
		cursor = indexOf(order, s.Focus)
	}
	if cursor < 0 {
		return
	}
	rows := m.rows()
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+rows {
		m.offset = cursor - rows + 1
	}
	m.offset = min(max(m.offset, 0), max(len(order)-rows, 0))
}

func (m *browseModel) View() string {
	var b strings.Builder
	l := m.view.Layout()

	b.WriteString(StyleTitle.Render("Timeruler"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s..%s", m.view.Data().StartDate, m.view.Data().EndDate)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ hover  ⏎ focus  c clear  r random  q quit"))
	b.WriteString("\n\n")

	if len(l.Bars) == 0 {
		b.WriteString(StyleDim.Render("  (no activity)"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.rows(), len(l.Bars))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.barLine(l, i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.panel(l))
	return b.String()
}

// barLine draws one bar: a label column, then a track whose length follows
// the bar's magnification.
func (m *browseModel) barLine(l layout.Layout, i int) string {
	bar := l.Bars[i]
	cursor := "  "
	if bar.Date.Equal(l.State.Hovered) {
		cursor = "▸ "
	}
	year := ""
	if i == 0 || l.Bars[i-1].Date.Year() != bar.Date.Year() {
		year = fmt.Sprint(bar.Date.Year())
	}
	label := runewidth.FillRight(cursor+stateMark(bar.State)+" "+bar.Date.String(), browseLabelCol)
	label += runewidth.FillRight(year, 5)

	room := max(m.width-runewidth.StringWidth(label)-1, 1)
	n := min(max(int(math.Round(bar.Magnification*browseUnit)), 1), room)
	filled := min(int(math.Round(float64(n)*bar.Fill)), n)
	track := strings.Repeat("█", filled) + strings.Repeat("▒", n-filled)

	return label + barStyle(bar.State).Render(track)
}

func (m *browseModel) panel(l layout.Layout) string {
	s := m.view.Summary()
	var lines []string
	if s.Date.IsZero() {
		lines = append(lines, StyleDim.Render("no current day"))
	} else {
		photos := "no photos"
		if s.HasPhotos {
			photos = fmt.Sprintf("%d photos", s.PhotoCount)
		}
		lines = append(lines,
			browseCurrentStyle.Render(s.Date.String()),
			fmt.Sprintf("%d entries · %s", s.EntryCount, photos))
	}
	focus := dateOrNone(l.State.Focus.String())
	lines = append(lines, StyleDim.Render(fmt.Sprintf("focus %s · offset %s", focus, formatFloat(l.OffsetY))))
	if m.status != "" {
		lines = append(lines, StyleDim.Render(m.status))
	}
	return browsePanelStyle.Render(strings.Join(lines, "\n"))
}

func stateMark(s layout.BarState) string {
	switch s {
	case layout.StateFocus:
		return "▶"
	case layout.StateCurrent:
		return "●"
	case layout.StateHovered:
		return "›"
	case layout.StateRecent:
		return "+"
	default:
		return " "
	}
}

func barStyle(s layout.BarState) lipgloss.Style {
	switch s {
	case layout.StateFocus:
		return browseFocusStyle
	case layout.StateCurrent:
		return browseCurrentStyle
	case layout.StateHovered:
		return browseHoverStyle
	case layout.StateRecent:
		return browseRecentStyle
	default:
		return browseNormalStyle
	}
}

func indexOf(entries []timeline.Entry, d timeline.Date) int {
	if d.IsZero() {
		return -1
	}
	for i, e := range entries {
		if e.Date.Equal(d) {
			return i
		}
	}
	return -1
}
