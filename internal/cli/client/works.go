package client

import (
	"fmt"
	"time"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/service"
	"github.com/spf13/cobra"
)

// WorksCmd creates the works command group.
func WorksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "works",
		Short: "Manage works",
		Long:  "List, inspect, create and delete works in the library.",
	}

	cmd.AddCommand(worksListCmd())
	cmd.AddCommand(worksShowCmd())
	cmd.AddCommand(worksCreateCmd())
	cmd.AddCommand(worksDeleteCmd())

	return cmd
}

func worksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all works",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			works, err := e.Library.ListWorks(ctx)
			if err != nil {
				return err
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(works)
			}

			if len(works) == 0 {
				fmt.Println("No works yet. Create one with 'inkflow works create'.")
				return nil
			}
			for _, w := range works {
				fmt.Printf("%s  %s  (%s, %d chapters, %d entries)\n",
					w.ID, w.Title, w.Genre, len(w.Chapters), len(w.Entries))
			}
			return nil
		},
	}
}

func worksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <work-id>",
		Short: "Show one work in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			w, err := e.Library.GetWork(ctx, args[0])
			if err != nil {
				return err
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(w)
			}

			printWork(w)
			return nil
		},
	}
}

func printWork(w *domain.Work) {
	fmt.Printf("%s (%s)\n", w.Title, w.Genre)
	if w.Description != "" {
		fmt.Println(w.Description)
	}
	fmt.Printf("Updated: %s\n", time.UnixMilli(w.UpdatedAt).Format("2006-01-02 15:04"))

	fmt.Printf("\nChapters (%d):\n", len(w.Chapters))
	for i, ch := range w.Chapters {
		marker := " "
		if ch.Summary != "" {
			marker = "*" // has a recap summary
		}
		fmt.Printf("  %2d. %s %s  (%d chars)\n", i+1, marker, ch.Title, len([]rune(ch.Content)))
	}

	fmt.Printf("\nKnowledge base (%d entries):\n", len(w.Entries))
	names := w.CategoryNames()
	for _, entry := range w.Entries {
		fmt.Printf("  [%s] %s (%s)\n", names[entry.CategoryID], entry.Title, entry.ID)
	}
}

func worksCreateCmd() *cobra.Command {
	var (
		title       string
		description string
		genre       string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new work",
		Long:  "Creates a work seeded with the default knowledge categories.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			w, err := e.Library.CreateWork(ctx, service.CreateWorkInput{
				Title:       title,
				Description: description,
				Genre:       genre,
			})
			if err != nil {
				return err
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(w)
			}

			fmt.Printf("Created work %s (%s)\n", w.Title, w.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Work title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "One-paragraph description")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Genre label")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func worksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <work-id>",
		Short: "Delete a work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.Library.DeleteWork(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted work %s\n", args[0])
			return nil
		},
	}
}
