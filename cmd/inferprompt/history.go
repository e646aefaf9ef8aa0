package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/ports"
	"github.com/spf13/cobra"
)

// historyCmd provides subcommands for browsing optimization history
func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse optimization history",
		Long: `Browse persisted optimization records.

Subcommands:
  list  List optimization records
  show  Show one record in full`,
	}

	cmd.AddCommand(
		historyListCmd(),
		historyShowCmd(),
	)

	return cmd
}

// historyListCmd lists optimization records
func historyListCmd() *cobra.Command {
	var (
		limit    int
		offset   int
		model    string
		showJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List optimization records",
		Long:  `List optimization records, newest first, with optional model filter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			records, total, err := store.History().List(ctx, ports.HistoryFilter{
				Limit:  limit,
				Offset: offset,
				Model:  model,
			})
			if err != nil {
				return fmt.Errorf("failed to list history: %w", err)
			}

			if showJSON {
				data, err := json.MarshalIndent(records, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			if len(records) == 0 {
				fmt.Println("No optimization records found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tSCORE\tPROMPT\tCREATED")
			fmt.Fprintln(w, "--\t-----\t-----\t------\t-------")

			for _, record := range records {
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\n",
					record.ID,
					record.TargetModel,
					record.EffectivenessScore,
					truncate(record.UserPrompt, 40),
					record.CreatedAt.Format("2006-01-02 15:04"),
				)
			}

			w.Flush()
			fmt.Printf("\nShowing %d of %d records\n", len(records), total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of records to list")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Number of records to skip")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Filter by target model")
	cmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	return cmd
}

// historyShowCmd shows one optimization record in full
func historyShowCmd() *cobra.Command {
	var showJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one optimization record",
		Long:  `Show one persisted optimization record with its components and rationale.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			recordID := args[0]

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.History().GetByID(ctx, recordID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("prompt not found: %s", recordID)
				}
				return fmt.Errorf("failed to get record: %w", err)
			}

			if showJSON {
				data, err := json.MarshalIndent(record, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Optimization: %s\n", record.ID)
			fmt.Printf("Model:        %s\n", record.TargetModel)
			fmt.Printf("Score:        %.1f\n", record.EffectivenessScore)
			fmt.Printf("Created:      %s\n", record.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Println()

			fmt.Println("User Prompt:")
			fmt.Println("---")
			fmt.Println(record.UserPrompt)
			fmt.Println("---")
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "POSITION\tTYPE\tCONTENT")
			fmt.Fprintln(w, "--------\t----\t-------")
			for _, component := range record.Components {
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
			fmt.Println(record.FullPrompt)
			fmt.Println("---")
			fmt.Println()
			fmt.Printf("Rationale: %s\n", record.Rationale)

			return nil
		},
	}

	cmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	return cmd
}
