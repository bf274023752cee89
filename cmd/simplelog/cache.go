package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/aretw0/simplelog/internal/platform"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the offline resource cache",
}

var cacheInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Fetch every manifest resource into the current cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openCache()
		if err != nil {
			return err
		}
		if err := mgr.Install(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Installed %d resources into %s.\n", len(mgr.Manifest().URLs), mgr.Name())
		return nil
	},
}

var cacheActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Delete every cache generation except the current one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openCache()
		if err != nil {
			return err
		}
		purged, err := mgr.Activate(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range purged {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Activated %s.\n", mgr.Name())
		return nil
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cache generations and their entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, err := platform.OpenCacheStorage(dataDir(), storeOptions()...)
		if err != nil {
			return err
		}
		names, err := storage.Keys(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No caches installed.")
			return nil
		}

		for _, name := range names {
			c, err := storage.Open(ctx, name)
			if err != nil {
				return err
			}
			keys, err := c.Keys(ctx)
			if err != nil {
				return err
			}
			label := "stale"
			if name == cfg.Cache.Name {
				label = "current"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d entries\n", name, label, len(keys))
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", k)
			}
		}
		return nil
	},
}

var cacheFetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a resource the way the offline worker would",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr, err := openCache()
		if err != nil {
			return err
		}
		if _, err := mgr.Resume(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, args[0], nil)
		if err != nil {
			return err
		}
		resp := mgr.Fetch(ctx, req)
		if resp == nil {
			return fmt.Errorf("%s is unavailable offline", args[0])
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\n", resp.Status, resp.URL)
		_, err = cmd.OutOrStdout().Write(resp.Body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInstallCmd, cacheActivateCmd, cacheStatusCmd, cacheFetchCmd)
}

