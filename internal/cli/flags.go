package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/timeruler/pkg/pipeline"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/view"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// dataFlags select the timeline: a date range and seed, or a data file.
type dataFlags struct {
	start   string
	end     string
	seed    uint64
	data    string
	refresh bool
	noCache bool
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "generator seed, 0 for random")
	cmd.Flags().StringVar(&f.data, "data", "", "load the timeline from a JSON file instead of generating")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "regenerate even if cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply overrides opts with the flags the user set explicitly.
func (f *dataFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	var err error
	if cmd.Flags().Changed("start") {
		if opts.Start, err = timeline.ParseDate(f.start); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("end") {
		if opts.End, err = timeline.ParseDate(f.end); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	if f.data != "" {
		opts.DataFile = f.data
	}
	opts.Refresh = f.refresh
	return nil
}

// rulerFlags set the view state and magnification.
type rulerFlags struct {
	focus   string
	hover   string
	current string
	today   string
	year    int
	peak    float64
	window  int
	wide    bool
}

func (f *rulerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.focus, "focus", "", "focused day (YYYY-MM-DD); default is the middle bar, \"none\" disables")
	cmd.Flags().StringVar(&f.hover, "hover", "", "hovered day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.current, "current", "", "current day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.today, "today", "", "reference day for the recent highlight (default today)")
	cmd.Flags().IntVar(&f.year, "year", 0, "reference year for year marker fading (default this year)")
	cmd.Flags().Float64Var(&f.peak, "peak", 0, "magnification of the focused bar")
	cmd.Flags().IntVar(&f.window, "window", 0, "days over which magnification falls off")
	cmd.Flags().BoolVar(&f.wide, "wide", false, "use the wide magnification peak")
}

// apply sets state and magnification on opts. data is needed to resolve the
// default focus.
func (f *rulerFlags) apply(cmd *cobra.Command, opts *pipeline.Options, data timeline.Data) error {
	var err error
	switch f.focus {
	case "":
		opts.Focus = view.New(data, view.Options{}).DefaultFocus()
	case noFocus:
		opts.Focus = timeline.Date{}
	default:
		if opts.Focus, err = timeline.ParseDate(f.focus); err != nil {
			return err
		}
	}
	if opts.Hovered, err = optionalDate(f.hover); err != nil {
		return err
	}
	if opts.Current, err = optionalDate(f.current); err != nil {
		return err
	}
	if opts.Today, err = optionalDate(f.today); err != nil {
		return err
	}
	if f.year != 0 {
		opts.CurrentYear = f.year
	}
	if f.wide {
		opts.Peak = layout.WidePeak
	}
	if cmd.Flags().Changed("peak") {
		opts.Peak = f.peak
	}
	if cmd.Flags().Changed("window") {
		opts.Window = f.window
	}
	return nil
}

const noFocus = "none"

func optionalDate(s string) (timeline.Date, error) {
	if s == "" {
		return timeline.Date{}, nil
	}
	return timeline.ParseDate(s)
}

// baseOptions builds pipeline options from the config file and data flags.
func (c *CLI) baseOptions(cmd *cobra.Command, df *dataFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.PipelineOptions()
	opts.Logger = c.Logger
	if err := df.apply(cmd, &opts); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
