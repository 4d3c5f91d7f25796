package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solver output cache",
		Long: `Manage the cache of solver outputs.

Solved instances are cached so repeat analyses skip the solver entirely.
Entries never go stale - the exact treewidth of a given instance cannot
change - so clearing is only ever about reclaiming disk space.`,
	}

	cmd.AddCommand(newCacheInfoCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

// newCacheInfoCmd creates the "cache info" subcommand.
func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache backend, location, and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheInfo(cmd.Context())
		},
	}
}

func runCacheInfo(ctx context.Context) error {
	cfg := configFromContext(ctx)

	backend := cfg.Cache.Backend
	if backend == "" {
		backend = "file"
	}
	printKeyValue("Backend", backend)
	if cfg.Cache.Namespace != "" {
		printKeyValue("Namespace", cfg.Cache.Namespace)
	}

	switch backend {
	case "file":
		printKeyValue("Location", cfg.Cache.Dir)
		entries, size, err := cacheUsage(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		printKeyValue("Entries", strconv.Itoa(entries))
		printKeyValue("Size", formatBytes(size))
	case "redis":
		printKeyValue("Address", cfg.Cache.Redis.Addr)
		printKeyValue("Database", strconv.Itoa(cfg.Cache.Redis.DB))
	}
	return nil
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached solver outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd.Context())
		},
	}
}

func runCacheClear(ctx context.Context) error {
	cfg := configFromContext(ctx)

	switch cfg.Cache.Backend {
	case "none":
		printInfo("Caching is disabled; nothing to clear")
		return nil
	case "redis":
		return fmt.Errorf("clear only manages the file backend; remove redis entries with redis-cli against %s", cfg.Cache.Redis.Addr)
	}

	removed, err := clearEntries(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	if removed == 0 {
		printInfo("Cache is already empty")
		printDetail("%s", cfg.Cache.Dir)
		return nil
	}

	printSuccess("Removed %d cached solver outputs", removed)
	printDetail("%s", cfg.Cache.Dir)
	return nil
}

// cacheUsage counts cache entries under dir and sums their sizes.
// A missing directory reads as an empty cache.
func cacheUsage(dir string) (entries int, size int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".entry") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

// clearEntries deletes every cache entry under dir and prunes the shard
// directories left empty. Files that are not cache entries stay untouched.
func clearEntries(dir string) (int, error) {
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".entry") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, err
	}

	children, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return removed, nil
	}
	if err != nil {
		return removed, err
	}
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		sub := filepath.Join(dir, child.Name())
		if entries, err := os.ReadDir(sub); err == nil && len(entries) == 0 {
			_ = os.Remove(sub)
		}
	}
	return removed, nil
}

// formatBytes renders a byte count in human-readable units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
