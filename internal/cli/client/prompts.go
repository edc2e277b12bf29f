package client

import (
	"fmt"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/spf13/cobra"
)

// PromptsCmd creates the prompts command group.
func PromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage the prompt template library",
	}

	cmd.AddCommand(promptsListCmd())
	cmd.AddCommand(promptsAddCmd())
	cmd.AddCommand(promptsDeleteCmd())
	cmd.AddCommand(promptsCategoriesCmd())

	return cmd
}

func promptsListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompt templates",
		Long:  "Lists the prompt library. The defaults are seeded on first use.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			prompts, err := e.Library.ListPromptTemplates(ctx)
			if err != nil {
				return err
			}

			if category != "" {
				filtered := prompts[:0]
				for _, p := range prompts {
					if p.Category == category {
						filtered = append(filtered, p)
					}
				}
				prompts = filtered
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(prompts)
			}

			for _, p := range prompts {
				fmt.Printf("%s  [%s] %s\n", p.ID, p.Category, p.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only templates of this category")

	return cmd
}

func promptsAddCmd() *cobra.Command {
	var (
		title    string
		content  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a prompt template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			p := &domain.PromptTemplate{Title: title, Content: content, Category: category}
			if err := e.Library.SavePromptTemplate(ctx, p); err != nil {
				return err
			}
			fmt.Printf("Added prompt %s (%s)\n", p.Title, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Template title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Template content")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Template category")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func promptsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <prompt-id>",
		Short: "Delete a prompt template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.Library.DeletePromptTemplate(ctx, args[0])
		},
	}
}

func promptsCategoriesCmd() *cobra.Command {
	var add string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List or add prompt categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if add != "" {
				if err := e.Library.AddPromptCategory(ctx, add); err != nil {
					return err
				}
			}

			categories, err := e.Library.ListPromptCategories(ctx)
			if err != nil {
				return err
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(categories)
			}

			for _, c := range categories {
				fmt.Println(c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "Add this category before listing")

	return cmd
}
