package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inferprompt/inferprompt/internal/adapters/meta"
	"github.com/spf13/cobra"
)

// analyzeCmd analyzes a prompt without optimizing it
func analyzeCmd() *cobra.Command {
	var showJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <prompt>",
		Short: "Analyze a prompt for tasks and behaviors",
		Long: `Analyze a prompt to detect the reasoning tasks it calls for, the
output behaviors it requests, an optional domain hint, and a token estimate.

Analysis is deterministic and needs no storage backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			analyzer := meta.NewAnalyzer()
			analysis, err := analyzer.Analyze(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to analyze prompt: %w", err)
			}

			if showJSON {
				data, err := json.MarshalIndent(analysis, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println("Detected Tasks:")
			if len(analysis.DetectedTasks) == 0 {
				fmt.Println("  (none)")
			}
			for _, task := range analysis.DetectedTasks {
				fmt.Printf("  - %s\n", task)
			}
			fmt.Println()

			fmt.Println("Detected Behaviors:")
			if len(analysis.DetectedBehaviors) == 0 {
				fmt.Println("  (none)")
			}
			for _, behavior := range analysis.DetectedBehaviors {
				fmt.Printf("  - %s\n", behavior)
			}
			fmt.Println()

			if analysis.DomainHint != nil {
				fmt.Printf("Domain Hint:    %s\n", *analysis.DomainHint)
			}
			fmt.Printf("Token Estimate: %d\n", analysis.TokenEstimate)

			return nil
		},
	}

	cmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	return cmd
}
