package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/inferprompt/inferprompt/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inferprompt",
		Short: "InferPrompt - combinatorial prompt structure optimizer",
		Long: `InferPrompt selects and orders prompt components (instruction, context,
example, constraint, output format) for a target model and reasoning tasks,
using logic-programming inference over an efficacy model.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		optimizeCmd(),
		analyzeCmd(),
		feedbackCmd(),
		historyCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("Server:")
			fmt.Printf("  Host:         %s\n", cfg.Server.Host)
			fmt.Printf("  Port:         %d\n", cfg.Server.Port)
			fmt.Printf("  CORS Origins: %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
			if cfg.Server.RateLimit > 0 {
				fmt.Printf("  Rate Limit:   %.1f req/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.RateBurst)
			} else {
				fmt.Printf("  Rate Limit:   disabled\n")
			}
			fmt.Println()

			fmt.Println("Database:")
			fmt.Printf("  SQLite Path: %s\n", cfg.Database.Path)
			fmt.Printf("  PostgreSQL:  %s\n", maskSecret(cfg.Database.PostgresURL))
			fmt.Println()

			fmt.Println("Optimizer:")
			fmt.Printf("  Default Model:  %s\n", cfg.Optimizer.DefaultModel)
			fmt.Printf("  Cache Capacity: %d\n", cfg.Optimizer.CacheCapacity)
			if cfg.Optimizer.SeedsPath != "" {
				fmt.Printf("  Seeds Path:     %s\n", cfg.Optimizer.SeedsPath)
			} else {
				fmt.Printf("  Seeds Path:     (built-in)\n")
			}
			fmt.Println()

			fmt.Println("Environment variables:")
			fmt.Println("  INFERPROMPT_SERVER_HOST, INFERPROMPT_SERVER_PORT, INFERPROMPT_CORS_ORIGINS")
			fmt.Println("  INFERPROMPT_RATE_LIMIT, INFERPROMPT_RATE_BURST")
			fmt.Println("  INFERPROMPT_DB_PATH, INFERPROMPT_POSTGRES_URL")
			fmt.Println("  INFERPROMPT_DEFAULT_MODEL, INFERPROMPT_CACHE_CAPACITY, INFERPROMPT_SEEDS_PATH")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("InferPrompt %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}
