package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/timeruler/pkg/ruler/sink"
)

// layoutCommand creates the layout command that prints the computed ruler layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		df     dataFlags
		rf     rulerFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the ruler layout as JSON",
		Long: `Compute bar heights, positions, the focus offset and year markers,
and write them as JSON for a custom renderer.`,
		Example: `  timeruler layout --seed 42 --focus 2023-06-03
  timeruler layout --data timeline.json --focus none -o layout.json`,
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
			if err := rf.apply(cmd, &opts, data); err != nil {
				return err
			}

			l, hit, err := runner.LayoutWithCacheInfo(cmd.Context(), data, opts)
			if err != nil {
				return err
			}
			c.Logger.Debug("layout", "bars", len(l.Bars), "offset", l.OffsetY, "cached", hit)

			out, err := sink.RenderJSON(l)
			if err != nil {
				return err
			}
			if err := writeOutput(output, out); err != nil {
				return err
			}
			if !isStdout(output) {
				printSuccess("Layout with %d bars", len(l.Bars))
				printLayoutState(l)
				printFile(output)
			}
			return nil
		},
	}

	df.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
