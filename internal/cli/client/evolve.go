package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/spf13/cobra"
)

// EvolveCmd creates the evolve command.
func EvolveCmd() *cobra.Command {
	var (
		chapterID string
		apply     bool
		pick      string
	)

	cmd := &cobra.Command{
		Use:   "evolve <work-id>",
		Short: "Reconcile the knowledge base against a chapter",
		Long: `Analyzes a chapter for new or changed entities and proposes
knowledge-base updates. Without --apply the suggestions are only printed;
--pick commits a subset by number, --apply commits them all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.requireAI(); err != nil {
				return err
			}

			w, err := e.Library.GetWork(ctx, args[0])
			if err != nil {
				return err
			}
			ch := w.Chapter(chapterID)
			if ch == nil {
				return domain.ErrChapterNotFound
			}

			suggestions, err := e.Reconciler.Analyze(ctx, w, ch.Content)
			if err != nil {
				return err
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(suggestions)
			}

			if len(suggestions) == 0 {
				fmt.Println("No knowledge changes suggested.")
				return nil
			}

			for i, s := range suggestions {
				fmt.Printf("%2d. [%s/%s] %s\n", i+1, s.Kind, s.EntityType, s.Name)
				if s.Description != "" {
					fmt.Printf("      %s\n", firstLine(s.Description))
				}
				if s.Reason != "" {
					fmt.Printf("      reason: %s\n", s.Reason)
				}
			}

			selected, err := selectSuggestions(suggestions, apply, pick)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				fmt.Println("\nNothing committed. Re-run with --apply or --pick to accept suggestions.")
				return nil
			}

			if err := e.Reconciler.Commit(ctx, w, selected); err != nil {
				return err
			}
			fmt.Printf("\nCommitted %d suggestions.\n", len(selected))
			return nil
		},
	}

	cmd.Flags().StringVarP(&chapterID, "chapter", "c", "", "Chapter to analyze (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Commit every suggestion")
	cmd.Flags().StringVar(&pick, "pick", "", "Commit only these suggestion numbers (e.g. 1,3)")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}

func selectSuggestions(all []domain.EvolutionSuggestion, apply bool, pick string) ([]domain.EvolutionSuggestion, error) {
	if apply {
		return all, nil
	}
	if pick == "" {
		return nil, nil
	}

	var selected []domain.EvolutionSuggestion
	for _, part := range strings.Split(pick, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(all) {
			return nil, fmt.Errorf("invalid suggestion number %q", part)
		}
		selected = append(selected, all[n-1])
	}
	return selected, nil
}
