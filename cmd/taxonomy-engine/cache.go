// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/taxonomy-engine/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear compiled taxonomy caches",
	Long: `Cache manages the per-source cache files written by compile. Each source
has one SQLite file named after its base name in the cache directory.`,
}

// --- path subcommand ---

var cachePathCmd = &cobra.Command{
	Use:   "path SOURCE...",
	Short: "Print the cache file path for each source",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCachePath,
}

func runCachePath(cmd *cobra.Command, args []string) error {
	store := newStore(engineConfig(), newSink())
	for _, source := range args {
		p, err := store.Path(source)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, p)
	}
	return nil
}

// --- info subcommand ---

var cacheInfoCmd = &cobra.Command{
	Use:   "info SOURCE...",
	Short: "Show creation time and keyword counts of cached sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheInfo,
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store := newStore(engineConfig(), newSink())
	for _, source := range args {
		info, err := store.Stat(context.Background(), source)
		if errors.Is(err, cache.ErrMiss) {
			fmt.Fprintf(os.Stdout, "%s: not cached\n", source)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s\n  path:       %s\n  created:    %s\n  singles:    %d\n  composites: %d\n",
			source, info.Path, info.CreatedAt.Format(time.RFC1123), info.Singles, info.Composites)
	}
	return nil
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear SOURCE...",
	Short: "Remove the cache files of the given sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store := newStore(engineConfig(), newSink())
	for _, source := range args {
		if err := store.Clear(source); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: cleared\n", source)
	}
	return nil
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
