package client

import (
	"fmt"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/spf13/cobra"
)

// CheckCmd creates the check command.
func CheckCmd() *cobra.Command {
	var (
		chapterID string
		fix       bool
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "check <work-id>",
		Short: "Audit a chapter against the knowledge base",
		Long: `Checks a chapter's text for contradictions with the character,
world and item entries of the knowledge base and prints a report.
With --fix the provider also rewrites the text to resolve the findings.`,
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

			report, err := e.Auditor.Audit(ctx, w, ch.Content)
			if err != nil {
				return err
			}
			fmt.Println(report)

			if !fix {
				return nil
			}

			fixed, err := e.Auditor.Fix(ctx, w, ch.Content, report)
			if err != nil {
				return err
			}
			fmt.Println("\n--- revised text ---")
			fmt.Println(fixed)

			if save {
				ch.Content = fixed
				ch.Summary = ""
				if err := e.Library.SaveWork(ctx, w); err != nil {
					return err
				}
				fmt.Println("\nSaved revised text to chapter.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&chapterID, "chapter", "c", "", "Chapter to audit (required)")
	cmd.Flags().BoolVar(&fix, "fix", false, "Also generate a revised chapter text")
	cmd.Flags().BoolVar(&save, "save", false, "With --fix, replace the chapter content with the revision")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}
