package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/simplelog"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of simplelog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "simplelog version %s\n", strings.TrimSpace(simplelog.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
