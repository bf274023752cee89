package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/simplelog/internal/config"
	"github.com/aretw0/simplelog/internal/platform"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create simplelog.yaml and the data directory",
	Long: `Initialize simplelog in the current directory: write a default
simplelog.yaml (unless one exists) and create the data directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wd := mustGetwd()
		path := configPath
		if path == "" {
			path = filepath.Join(wd, platform.ConfigFile)
		}

		_, err := os.Stat(path)
		switch {
		case err == nil && !initForce:
			fmt.Fprintf(cmd.OutOrStdout(), "Keeping existing %s\n", path)
		case err == nil || errors.Is(err, os.ErrNotExist):
			out := config.Default()
			out.Storage.Adapter = cfg.Storage.Adapter
			out.Storage.Path = cfg.Storage.Path
			if err := config.Write(path, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		default:
			return err
		}

		_, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized simplelog in", dataDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
