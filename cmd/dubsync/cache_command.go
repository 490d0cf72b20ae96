package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubsync/internal/fragmentcache"
)

func newCacheCommand(cmdCtx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Fragment cache utilities",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cached fragment count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmdCtx, func(store *fragmentcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d fragments, %.1f MiB\n",
					stats.Entries, float64(stats.TotalSize)/(1024*1024))
				return nil
			})
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached fragments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmdCtx, func(store *fragmentcache.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Fragment cache cleared")
				return nil
			})
		},
	})

	return cacheCmd
}

func withCache(cmdCtx *commandContext, fn func(*fragmentcache.Store) error) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := fragmentcache.Open(cfg.CachePath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
