package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/timeruler/pkg/pipeline"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string
	formats  string
	labels   bool
	tooltips bool
	width    int
}

// renderCommand creates the render command that draws the ruler.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		df   dataFlags
		rf   rulerFlags
		opts renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the ruler as SVG, JSON or text",
		Long: `Render the magnified ruler for a timeline.

With a single format and no -o the output goes to stdout. With several
formats, -o names the base path and each format gets its own extension.`,
		Example: `  timeruler render --seed 42 -o ruler.svg
  timeruler render --data timeline.json -f text --focus 2023-06-03
  timeruler render -f svg,json,text -o out/ruler --labels --tooltips`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, &df, &rf, opts)
		},
	}

	df.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, json, text (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label bars with their position (svg)")
	cmd.Flags().BoolVar(&opts.tooltips, "tooltips", false, "add a title tooltip to every bar (svg)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "line width of the text format (default terminal width)")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, df *dataFlags, rf *rulerFlags, ro renderOpts) error {
	ctx := cmd.Context()
	opts, err := c.baseOptions(cmd, df)
	if err != nil {
		return err
	}
	opts.Formats = parseFormats(ro.formats)
	opts.IndexLabels = ro.labels
	opts.Tooltips = ro.tooltips
	opts.TextWidth = textWidth(ro.width, ro.output)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, df.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Rendering ruler...")
	if isTerminal(os.Stderr) {
		spin.Start()
	}

	data, dataHit, err := runner.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		spin.Stop()
		return err
	}
	if err := rf.apply(cmd, &opts, data); err != nil {
		spin.Stop()
		return err
	}
	l, _, err := runner.LayoutWithCacheInfo(ctx, data, opts)
	if err != nil {
		spin.Stop()
		return err
	}
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	if len(opts.Formats) == 1 && isStdout(ro.output) {
		return writeOutput("", artifacts[opts.Formats[0]])
	}

	paths, err := writeArtifacts(ro.output, opts.Formats, artifacts)
	if err != nil {
		return err
	}
	s := data.Stats()
	printSuccess("Rendered %d bars", len(l.Bars))
	printStats(s.TotalDays, s.ActiveDays, dataHit && renderHit)
	printLayoutState(l)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each format to disk and returns the paths written.
// A single format is written to output as given.
func writeArtifacts(output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if len(formats) == 1 && !isStdout(output) {
		return []string{output}, writeOutput(output, artifacts[formats[0]])
	}
	base := basePath(output)
	var paths []string
	for _, f := range formats {
		p := outputPath(base, f)
		if slices.Contains(paths, p) {
			continue
		}
		if err := writeOutput(p, artifacts[f]); err != nil {
			return paths, fmt.Errorf("write %s: %w", f, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func printLayoutState(l layout.Layout) {
	printKeyValue("focus", dateOrNone(l.State.Focus.String()))
	printKeyValue("offset", formatFloat(l.OffsetY))
}

// textWidth picks the text format width: the flag, the terminal width when
// writing to one, then the default.
func textWidth(flag int, output string) int {
	if flag > 0 {
		return flag
	}
	if isStdout(output) && isTerminal(os.Stdout) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return pipeline.DefaultTextWidth
}

func isTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

func dateOrNone(s string) string {
	if s == "" {
		return noFocus
	}
	return s
}

func formatFloat(f float64) string { return fmt.Sprintf("%.2f", f) }
