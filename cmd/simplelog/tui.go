package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit notes in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Logs would corrupt the alt screen.
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		if verbose {
			quiet = logger
		}

		store, closeFn, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		p := tea.NewProgram(tui.New(ctx, store, quiet), tea.WithAltScreen(), tea.WithContext(ctx))

		unsubscribe := store.Subscribe(func(e core.Event) {
			if e.Type == core.EventLoad {
				p.Send(tui.StoreChangedMsg{Event: e})
			}
		})
		defer unsubscribe()

		if err := store.Watch(ctx); err != nil && !errors.Is(err, notes.ErrNotWatchable) {
			return err
		}

		_, err = p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
