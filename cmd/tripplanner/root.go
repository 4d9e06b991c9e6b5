package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/tripplanner/internal/app"
	"github.com/aretw0/tripplanner/internal/config"
	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tripplanner",
	Short: "AI travel planner: day-trip itineraries, weather and fun facts",
	Long: `tripplanner drafts a day-trip itinerary for a city with a language model,
adds the current weather and a fun fact, and serves it behind a simple login.`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	envFiles []string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, ".env files to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newApp loads configuration and wires the application for one command run.
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.New(ctx, cfg, logger)
}
