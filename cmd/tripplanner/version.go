package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tripplanner"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tripplanner",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tripplanner version %s\n", strings.TrimSpace(tripplanner.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
