package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/spf13/cobra"
)

// optimizeCmd runs one optimization against the configured store
func optimizeCmd() *cobra.Command {
	var (
		tasks     []string
		behaviors []string
		model     string
		domain    string
		showJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "optimize <prompt>",
		Short: "Optimize the structure of a prompt",
		Long: `Optimize the component structure of a prompt for a target model.

Tasks and behaviors left unset are detected from the prompt text. The
optimized prompt is persisted to history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			req := models.OptimizationRequest{
				UserPrompt:  args[0],
				TargetModel: model,
			}
			if req.TargetModel == "" {
				req.TargetModel = cfg.Optimizer.DefaultModel
			}
			if domain != "" {
				req.Domain = &domain
			}

			for _, raw := range tasks {
				task, err := models.ParseTaskType(raw)
				if err != nil {
					return fmt.Errorf("%w (valid: %v)", err, models.AllTaskTypes)
				}
				req.TargetTasks = append(req.TargetTasks, task)
			}
			for _, raw := range behaviors {
				behavior, err := models.ParseBehaviorType(raw)
				if err != nil {
					return fmt.Errorf("%w (valid: %v)", err, models.AllBehaviorTypes)
				}
				req.TargetBehaviors = append(req.TargetBehaviors, behavior)
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			pipe, err := buildPipeline(ctx, store)
			if err != nil {
				return err
			}

			result := pipe.optimizer.Optimize(ctx, req)

			if showJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Target Model: %s\n", req.Model())
			fmt.Printf("Score:        %.1f\n", result.EffectivenessScore)
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "POSITION\tTYPE\tCONTENT")
			fmt.Fprintln(w, "--------\t----\t-------")
			for _, component := range result.Components {
				fmt.Fprintf(w, "%d\t%s\t%s\n",
					component.Position,
					component.Type,
					truncate(component.Content, 60),
				)
			}
			w.Flush()
			fmt.Println()

			fmt.Println("Optimized Prompt:")
			fmt.Println("---")
			fmt.Println(result.FullPrompt)
			fmt.Println("---")
			fmt.Println()
			fmt.Printf("Rationale: %s\n", result.Rationale)

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tasks, "task", "t", nil, "Target reasoning task (repeatable)")
	cmd.Flags().StringArrayVarP(&behaviors, "behavior", "b", nil, "Target output behavior (repeatable)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Target model (defaults to configured model)")
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "Domain context (e.g. legal, medical)")
	cmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	return cmd
}
