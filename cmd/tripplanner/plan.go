package main

import (
	"fmt"

	"github.com/aretw0/tripplanner/internal/presentation/tui"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/sanitize"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate an itinerary, weather and fun fact in the terminal",
	Example: `  tripplanner plan --city Ahmedabad --interests "Food, Culture, Adventure"
  tripplanner plan --city Pune --username alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		city, _ := cmd.Flags().GetString("city")
		interests, _ := cmd.Flags().GetString("interests")
		username, _ := cmd.Flags().GetString("username")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := sanitize.Fields(a.Config.MaxInputSize, &city, &interests, &username); err != nil {
			return err
		}

		ctx := cmd.Context()
		if username != "" {
			if _, err := a.Accounts.Find(ctx, username); err != nil {
				return fmt.Errorf("plan as %q: %w", username, err)
			}
		}

		plan, err := a.Planner.Plan(ctx, domain.PlanRequest{
			Username:  username,
			City:      city,
			Interests: interests,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return tui.PrintPlan(out, plan, tui.NewRenderer(out))
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("city", "", "City for the trip (e.g. Ahmedabad)")
	planCmd.Flags().String("interests", "", "Comma-separated interests (e.g. Food, Culture, Adventure)")
	planCmd.Flags().String("username", "", "Registered user to attribute the plan to")
	_ = planCmd.MarkFlagRequired("city")
}
