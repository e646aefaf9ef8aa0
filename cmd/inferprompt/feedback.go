package main

import (
	"context"
	"fmt"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/spf13/cobra"
)

// feedbackCmd records component effectiveness feedback
func feedbackCmd() *cobra.Command {
	var (
		component     string
		task          string
		behavior      string
		effectiveness float64
	)

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record component effectiveness feedback",
		Long: `Record feedback on how effective a component type was for a reasoning
task or an output behavior. Feedback shifts the stored efficacy value and
influences future optimizations.

Exactly one of --task or --behavior is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if (task == "") == (behavior == "") {
				return fmt.Errorf("exactly one of --task or --behavior is required")
			}

			componentType, err := models.ParseComponentType(component)
			if err != nil {
				return fmt.Errorf("%w (valid: %v)", err, models.AllComponentTypes)
			}

			var target models.Target
			if task != "" {
				taskType, err := models.ParseTaskType(task)
				if err != nil {
					return fmt.Errorf("%w (valid: %v)", err, models.AllTaskTypes)
				}
				target = models.TaskTarget(taskType)
			} else {
				behaviorType, err := models.ParseBehaviorType(behavior)
				if err != nil {
					return fmt.Errorf("%w (valid: %v)", err, models.AllBehaviorTypes)
				}
				target = models.BehaviorTarget(behaviorType)
			}

			if effectiveness < 0 || effectiveness > 1 {
				return fmt.Errorf("effectiveness must be between 0 and 1")
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

			if !pipe.feedback.ProvideFeedback(ctx, componentType, target, effectiveness) {
				return fmt.Errorf("feedback could not be recorded")
			}

			fmt.Printf("Feedback recorded: %s / %s = %.2f\n", componentType, target, effectiveness)
			return nil
		},
	}

	cmd.Flags().StringVarP(&component, "component", "c", "", "Component type (required)")
	cmd.Flags().StringVarP(&task, "task", "t", "", "Reasoning task target")
	cmd.Flags().StringVarP(&behavior, "behavior", "b", "", "Output behavior target")
	cmd.Flags().Float64VarP(&effectiveness, "effectiveness", "e", 0, "Effectiveness between 0 and 1 (required)")
	cmd.MarkFlagRequired("component")
	cmd.MarkFlagRequired("effectiveness")

	return cmd
}
