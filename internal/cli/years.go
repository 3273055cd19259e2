package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timeruler/pkg/ruler/layout"
)

// yearsCommand creates the years command that lists year markers.
func (c *CLI) yearsCommand() *cobra.Command {
	var (
		df   dataFlags
		year int
	)

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the years on the ruler and their marker opacity",
		Long: `List every year that has activity, most recent first. Markers fade by
0.2 per year of distance from the reference year, down to 0.3.`,
		Example: `  timeruler years --seed 42
  timeruler years --data timeline.json --year 2021`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions(cmd, &df)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), df.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if year != 0 {
				opts.CurrentYear = year
			}
			opts.SetLayoutDefaults()

			markers := layout.YearMarkers(data.Active(), opts.CurrentYear)
			if len(markers) == 0 {
				printInfo("No active days in %s..%s", data.StartDate, data.EndDate)
				return nil
			}
			return printYears(cmd.OutOrStdout(), markers)
		},
	}

	df.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "reference year (default this year)")
	return cmd
}

const opacityTrack = 20

// printYears writes the markers as a table with an opacity gauge.
func printYears(w io.Writer, markers []layout.YearMarker) error {
	rows := make([][]string, len(markers))
	for i, m := range markers {
		filled := int(m.Opacity*opacityTrack + 0.5)
		gauge := strings.Repeat("█", filled) + strings.Repeat("░", opacityTrack-filled)
		rows[i] = []string{fmt.Sprint(m.Year), gauge, fmt.Sprintf("%.1f", m.Opacity), fmt.Sprintf("%.0f", m.Top)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Year", "Opacity", "", "Top").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Bold(true).Foreground(colorCyan)
			case 1:
				if row < len(markers) && markers[row].Opacity < 0.5 {
					return base.Foreground(colorDim)
				}
				return base.Foreground(colorCyan)
			default:
				return base.Foreground(colorGray)
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
