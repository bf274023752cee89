package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/simplelog/pkg/app"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
)

const timeLayout = "2006-01-02 15:04"

var (
	listJSON    bool
	showJSON    bool
	noteTitle   string
	noteContent string
	deleteYes   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		list := store.List()
		if listJSON {
			return writeJSON(cmd.OutOrStdout(), list)
		}

		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes yet.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, n := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Created.Local().Format(timeLayout), n.DisplayTitle())
		}
		return tw.Flush()
	},
}

var addCmd = &cobra.Command{
	Use:   "add [content...]",
	Short: "Add a note",
	Long: `Add a note. The content is taken from --content, from the arguments,
or from stdin when the only argument is "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFrom(cmd, args)
		if err != nil {
			return err
		}

		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		note, err := store.Create(cmd.Context(), notes.Input{Title: noteTitle, Content: content})
		if errors.Is(err, core.ErrEmptyContent) {
			return errors.New(app.MsgEmptyContent)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note %s added.\n", note.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> [content...]",
	Short: "Replace a note's title and content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		content, err := contentFrom(cmd, args[1:])
		if err != nil {
			return err
		}

		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if !cmd.Flags().Changed("title") {
			if old, ok := store.Find(id); ok {
				noteTitle = old.Title
			}
		}
		_, ok, err := store.Update(cmd.Context(), id, notes.Input{Title: noteTitle, Content: content})
		if errors.Is(err, core.ErrEmptyContent) {
			return errors.New(app.MsgEmptyContent)
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("note %s not found", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note %s updated.\n", id)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		note, ok := store.Find(args[0])
		if !ok {
			return fmt.Errorf("note %s not found", args[0])
		}
		if showJSON {
			return writeJSON(cmd.OutOrStdout(), note)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, note.DisplayTitle())
		fmt.Fprintf(out, "Created: %s\n", note.Created.Local().Format(timeLayout))
		if !note.Updated.Equal(note.Created) {
			fmt.Fprintf(out, "Updated: %s\n", note.Updated.Local().Format(timeLayout))
		}
		fmt.Fprintf(out, "\n%s\n", note.Content)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if _, ok := store.Find(args[0]); !ok {
			return fmt.Errorf("note %s not found", args[0])
		}

		prompter := app.NewStreamPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		prompter.AssumeYes = deleteYes
		session := app.NewSession(store, prompter, logger)

		deleted, err := session.ConfirmDelete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note %s deleted.\n", args[0])
		return nil
	},
}

var exportFormat string
var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every note as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return store.Export(w, exportFormat)
	},
}

func contentFrom(cmd *cobra.Command, args []string) (string, error) {
	if cmd.Flags().Changed("content") {
		return noteContent, nil
	}
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, editCmd, showCmd, deleteCmd, exportCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&noteTitle, "title", "", "Note title (optional)")
		c.Flags().StringVar(&noteContent, "content", "", "Note content")
	}

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", notes.FormatJSON, "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}
