package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeruler/pkg/timeline"
)

// generateCommand creates the generate command that writes a timeline snapshot.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		df     dataFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic activity timeline",
		Long: `Generate a day-by-day activity timeline and write it as JSON.

Weekends are slightly quieter, the year-end holidays busier, and active
days tend to cluster. Use --seed for a repeatable timeline.`,
		Example: `  timeruler generate --seed 42 -o timeline.json
  timeruler generate --start 2023-01-01 --end 2023-12-31`,
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

			prog := newProgress(c.Logger)
			data, hit, err := runner.GenerateWithCacheInfo(cmd.Context(), opts)
			if err != nil {
				return err
			}
			prog.done("Generated timeline")

			var buf bytes.Buffer
			if err := timeline.Write(&buf, data); err != nil {
				return err
			}
			if err := writeOutput(output, buf.Bytes()); err != nil {
				return err
			}
			if !isStdout(output) {
				s := data.Stats()
				printSuccess("Timeline %s..%s", data.StartDate, data.EndDate)
				printStats(s.TotalDays, s.ActiveDays, hit)
				printFile(output)
				printNextStep("Render it", "timeruler render --data "+output)
			}
			return nil
		},
	}

	df.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
