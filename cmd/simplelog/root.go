package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/simplelog"
	"github.com/aretw0/simplelog/internal/config"
	"github.com/aretw0/simplelog/internal/logging"
	"github.com/aretw0/simplelog/internal/platform"
	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/offline"
)

var (
	verbose    bool
	pretty     bool
	configPath string
	adapter    string
	dataPath   string

	cfg    config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simplelog",
	Short: "A local note log with an offline resource cache",
	Long: `simplelog keeps short text notes in a local data directory and manages
the versioned offline cache of the static web front end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Parse(resolveConfigPath())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("adapter") {
			cfg.Storage.Adapter = adapter
		}
		if cmd.Flags().Changed("data") {
			cfg.Storage.Path = dataPath
		}
		if verbose {
			cfg.App.LogLevel = "debug"
		}
		if pretty {
			cfg.App.Pretty = true
		}

		logger, err = logging.New(cmd.ErrOrStderr(), logging.Options{
			Level:  cfg.App.LogLevel,
			Format: cfg.App.LogFormat,
			Pretty: cfg.App.Pretty,
		})
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Colorized human-friendly logs")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: simplelog.yaml at the project root)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Data directory")
	rootCmd.SetUsageTemplate(rootCmd.UsageTemplate() + "\nEnvironment:\n" + config.Usage() + "\n")
}

// resolveConfigPath picks --config, else simplelog.yaml at the project root,
// else simplelog.yaml in the working directory.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if root, err := platform.LocateRoot("."); err == nil {
		return root.ConfigPath()
	}
	return platform.ConfigFile
}

// dataDir returns the data directory, anchored at the project root when relative.
func dataDir() string {
	path := cfg.Storage.Path
	if root, err := platform.LocateRoot("."); err == nil {
		return root.Resolve(path)
	}
	return path
}

func storeOptions() []simplelog.Option {
	return []simplelog.Option{
		simplelog.WithAdapter(cfg.Storage.Adapter),
		simplelog.WithKey(cfg.Storage.Key),
		simplelog.WithLogger(logger),
		simplelog.WithWatcherErrorHandler(func(err error) {
			logger.Error("watcher failure", "error", err)
		}),
	}
}

func openStore(ctx context.Context) (*notes.Store, func() error, error) {
	store, closeFn, err := simplelog.OpenStore(ctx, dataDir(), storeOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("open notes: %w", err)
	}
	return store, closeFn, nil
}

func openCache() (*offline.Manager, error) {
	fetcher, err := offline.NewHTTPFetcher(cfg.Cache.Origin, cfg.Cache.Timeout)
	if err != nil {
		return nil, err
	}
	return simplelog.OpenCache(dataDir(), offline.Config{
		Manifest:   cfg.Cache.Manifest(),
		Fetcher:    fetcher,
		Logger:     logger,
		Origin:     fetcher.Origin,
		Bypass:     cfg.Cache.Bypass,
		OfflineURL: cfg.Cache.OfflineURL,
		Retries:    cfg.Cache.Retries,
	}, storeOptions()...)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
