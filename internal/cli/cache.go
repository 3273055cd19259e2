package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeruler/internal/config"
	"github.com/matzehuels/timeruler/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached timelines, layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			n, where, err := clearCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("%s", where)
			return nil
		},
	}
}

// clearCache empties the configured backend and reports where it lives.
func clearCache(ctx context.Context, cfg config.CacheConfig) (int, string, error) {
	switch cfg.Type {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		})
		if err != nil {
			return 0, "", err
		}
		defer rc.Close()
		n, err := rc.Clear(ctx)
		return n, fmt.Sprintf("Redis: %s (prefix %q)", cfg.RedisAddr, cfg.RedisPrefix), err
	case config.CacheFile:
		dir, err := cacheDir(cfg)
		if err != nil {
			return 0, "", err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return 0, "", err
		}
		n, err := fc.Clear()
		return n, "Directory: " + dir, err
	default:
		return 0, "caching disabled", nil
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return printCachePath(cmd.OutOrStdout(), cfg.Cache)
		},
	}
}

func printCachePath(w io.Writer, cfg config.CacheConfig) error {
	if cfg.Type == config.CacheRedis {
		_, err := fmt.Fprintf(w, "redis://%s/%d %s\n", cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
		return err
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	_, err = fmt.Fprintln(w, dir)
	return err
}
