package client

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// KBCmd creates the knowledge-base command group.
func KBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage a work's knowledge base",
		Long:  "Inspect and edit the knowledge categories and entries of a work.",
	}

	cmd.AddCommand(kbCategoriesCmd())
	cmd.AddCommand(kbAddCategoryCmd())
	cmd.AddCommand(kbRenameCategoryCmd())
	cmd.AddCommand(kbDeleteCategoryCmd())
	cmd.AddCommand(kbListCmd())
	cmd.AddCommand(kbAddCmd())
	cmd.AddCommand(kbUpdateCmd())
	cmd.AddCommand(kbDeleteCmd())
	cmd.AddCommand(kbReorderCmd())

	return cmd
}

func kbCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories <work-id>",
		Short: "List knowledge categories",
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
				return printJSON(w.Categories)
			}

			for _, c := range w.Categories {
				entries := e.Knowledge.EntriesByCategory(w, c.ID)
				fmt.Printf("%s  %s  (%d entries)\n", c.ID, c.Name, len(entries))
			}
			return nil
		},
	}
}

func kbAddCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-category <work-id> <name>",
		Short: "Add a knowledge category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.Knowledge.AddCategory(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Added category %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
}

func kbRenameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-category <work-id> <category-id> <name>",
		Short: "Rename a knowledge category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.Knowledge.RenameCategory(ctx, args[0], args[1], args[2])
		},
	}
}

func kbDeleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-category <work-id> <category-id>",
		Short: "Delete a category and all of its entries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.Knowledge.DeleteCategory(ctx, args[0], args[1])
		},
	}
}

func kbListCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "list <work-id>",
		Short: "List knowledge entries",
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

			entries := w.Entries
			if categoryID != "" {
				entries = e.Knowledge.EntriesByCategory(w, categoryID)
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(entries)
			}

			names := w.CategoryNames()
			for _, entry := range entries {
				fmt.Printf("%s  [%s] %s\n", entry.ID, names[entry.CategoryID], entry.Title)
				if entry.Content != "" {
					fmt.Printf("    %s\n", firstLine(entry.Content))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Only entries of this category")

	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func kbAddCmd() *cobra.Command {
	var (
		categoryID string
		title      string
		content    string
	)

	cmd := &cobra.Command{
		Use:   "add <work-id>",
		Short: "Add a knowledge entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			entry, err := e.Knowledge.AddEntry(ctx, args[0], categoryID, title, content)
			if err != nil {
				return err
			}
			fmt.Printf("Added entry %s (%s)\n", entry.Title, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Category id (required)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Entry title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Entry content")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func kbUpdateCmd() *cobra.Command {
	var (
		title   string
		content string
	)

	cmd := &cobra.Command{
		Use:   "update <work-id> <entry-id>",
		Short: "Update a knowledge entry in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.Knowledge.UpdateEntry(ctx, args[0], args[1], title, content)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func kbDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <work-id> <entry-id>",
		Short: "Delete a knowledge entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.Knowledge.DeleteEntry(ctx, args[0], args[1])
		},
	}
}

func kbReorderCmd() *cobra.Command {
	var categories bool

	cmd := &cobra.Command{
		Use:   "reorder <work-id> <id,id,...>",
		Short: "Reorder entries or categories",
		Long:  "Persists a new order. The id list must name every existing item exactly once.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			ids := strings.Split(args[1], ",")
			if categories {
				return e.Knowledge.ReorderCategories(ctx, args[0], ids)
			}
			return e.Knowledge.ReorderEntries(ctx, args[0], ids)
		},
	}

	cmd.Flags().BoolVar(&categories, "categories", false, "Reorder categories instead of entries")

	return cmd
}
