package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/timeruler/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		df    dataFlags
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ruler and interactive views over HTTP",
		Long: `Serve one timeline snapshot over HTTP.

GET /ruler.svg renders the ruler, /api/layout returns it as JSON and
/api/views holds per-client focus and hover state. With --data and --watch
the snapshot is reloaded whenever the file changes.`,
		Example: `  timeruler serve --seed 42
  timeruler serve --data timeline.json --watch --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := c.baseOptions(cmd, &df)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, df.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sc := server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				RateLimit:    cfg.Server.RateLimit,
				ViewTTL:      cfg.Server.ViewTTL,
			}
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}

			server.RegisterLogHooks(c.Logger)
			srv := server.New(runner, opts, sc, c.Logger)
			if err := srv.Load(ctx); err != nil {
				return err
			}
			printSuccess("Serving %d days on http://%s", srv.Data().TotalDays, sc.Addr)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(ctx) })
			if watch && opts.DataFile != "" {
				g.Go(func() error { return srv.Watch(ctx, opts.DataFile) })
			} else if watch {
				c.Logger.Warn("--watch needs --data; not watching")
			}
			return g.Wait()
		},
	}

	df.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the --data file when it changes")
	return cmd
}
