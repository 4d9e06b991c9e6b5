package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tripplanner/pkg/sanitize"
	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather <city>",
	Short: "Print the current weather line for a city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		city, err := sanitize.Input(strings.Join(args, " "), a.Config.MaxInputSize)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Planner.Weather(cmd.Context(), city))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weatherCmd)
}
