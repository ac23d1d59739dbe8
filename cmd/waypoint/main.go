package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zen-systems/waypoint/pkg/config"
	"github.com/zen-systems/waypoint/pkg/dispatch"
	"github.com/zen-systems/waypoint/pkg/handlers"
	"github.com/zen-systems/waypoint/pkg/pipeline"
	"github.com/zen-systems/waypoint/pkg/profile"
	"github.com/zen-systems/waypoint/pkg/router"
)

var (
	configFile string
	debugFlag  bool
	logger     *zap.Logger
)

func main() {
	// Handler base URLs come from the environment; a local .env is the
	// usual way to point them at a dev stack.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "waypoint",
		Short: "Query routing core for a conversational data assistant",
		Long: `Waypoint profiles free-text queries, decides the next pipeline stage,
	and dispatches data queries to the mode handler that can answer them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(modesCmd())
	rootCmd.AddCommand(routersCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger() error {
	cfg := zap.NewProductionConfig()
	if debugFlag {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = cfg.Build()
	return err
}

func buildRunner(cfg *config.Config) (*pipeline.Runner, error) {
	routers := router.NewRegistry(logger)
	if err := router.RegisterBuiltins(routers); err != nil {
		return nil, err
	}

	modes := dispatch.NewRegistry(logger)
	handlers.RegisterAll(modes)

	orchestrator := dispatch.NewOrchestrator(modes,
		dispatch.WithFallbackMode(cfg.FallbackMode),
		dispatch.WithFetchTimeout(time.Duration(cfg.FetchTimeoutSeconds)*time.Second),
		dispatch.WithLogger(logger),
	)

	profiler := profile.NewProfiler(profile.WithLogger(logger))
	return pipeline.NewRunner(profiler, routers, orchestrator, cfg, logger), nil
}

func askCmd() *cobra.Command {
	var modeHint string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Run a query through the full pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFallback(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			runner, err := buildRunner(cfg)
			if err != nil {
				return err
			}

			result, err := runner.RunWithOptions(cmd.Context(), args[0], pipeline.RunOptions{
				ModeHint: modeHint,
			})
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			bold.Printf("Request %s\n", result.RequestID)
			fmt.Printf("Intent: %s (%.2f)  Tone: %s (%.2f)  Sub-intent: %s (%.2f)\n",
				result.Profile.Intent, result.Profile.IntentConfidence,
				result.Profile.Tone, result.Profile.ToneConfidence,
				result.Profile.SubIntent, result.Profile.SubIntentConfidence)
			fmt.Printf("Path: %v\n\n", result.Path)

			if result.Dispatch == nil {
				color.Yellow("No data query dispatched.")
				return nil
			}
			if result.Dispatch.Status == dispatch.StatusError {
				color.Red("Error (%s):", result.Dispatch.Mode)
			} else {
				color.Green("Answer (%s):", result.Dispatch.Mode)
			}
			fmt.Println(result.Dispatch.Answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&modeHint, "mode", "", "mode hint for dispatch (aliases resolved via config)")
	return cmd
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [query]",
		Short: "Print the query profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiler := profile.NewProfiler(profile.WithLogger(logger))
			out, err := json.MarshalIndent(profiler.Analyze(args[0]), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func modesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List registered dispatch modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := dispatch.NewRegistry(logger)
			handlers.RegisterAll(registry)
			for _, mode := range registry.Modes() {
				h, _ := registry.Get(mode)
				fmt.Printf("%-14s %s\n", mode, h.SourceLabel())
			}
			return nil
		},
	}
}

func routersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routers",
		Short: "List registered routers",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := router.NewRegistry(logger)
			if err := router.RegisterBuiltins(registry); err != nil {
				return err
			}
			for _, name := range registry.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFallback(configFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				color.Red("invalid: %v", err)
				return err
			}
			color.Green("configuration OK")
			return nil
		},
	}
}
