package client

import (
	"fmt"
	"io"
	"os"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/service"
	"github.com/spf13/cobra"
)

// ChaptersCmd creates the chapters command group.
func ChaptersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Manage a work's chapters",
	}

	cmd.AddCommand(chaptersAddCmd())
	cmd.AddCommand(chaptersSetCmd())
	cmd.AddCommand(chaptersShowCmd())
	cmd.AddCommand(chaptersDeleteCmd())
	cmd.AddCommand(chaptersRecapCmd())

	return cmd
}

func chaptersAddCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <work-id>",
		Short: "Add an empty chapter",
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

			ids := &service.DefaultUUIDGenerator{}
			ch := domain.Chapter{ID: ids.New(), Title: title}
			w.Chapters = append(w.Chapters, ch)
			if err := e.Library.SaveWork(ctx, w); err != nil {
				return err
			}

			fmt.Printf("Added chapter %s (%s)\n", ch.Title, ch.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Chapter title (required)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func chaptersSetCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set <work-id> <chapter-id>",
		Short: "Replace a chapter's content",
		Long:  "Reads the new content from --file, or from stdin when no file is given.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			content, err := readContent(file)
			if err != nil {
				return err
			}

			w, err := e.Library.GetWork(ctx, args[0])
			if err != nil {
				return err
			}
			ch := w.Chapter(args[1])
			if ch == nil {
				return domain.ErrChapterNotFound
			}

			ch.Content = content
			ch.Summary = "" // stale once the text changes
			if err := e.Library.SaveWork(ctx, w); err != nil {
				return err
			}

			fmt.Printf("Saved %d chars to %s\n", len([]rune(content)), ch.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from this file instead of stdin")

	return cmd
}

func readContent(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func chaptersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <work-id> <chapter-id>",
		Short: "Print a chapter's content",
		Args:  cobra.ExactArgs(2),
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
			ch := w.Chapter(args[1])
			if ch == nil {
				return domain.ErrChapterNotFound
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(ch)
			}

			fmt.Println(ch.Content)
			return nil
		},
	}
}

func chaptersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <work-id> <chapter-id>",
		Short: "Delete a chapter",
		Args:  cobra.ExactArgs(2),
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

			kept := w.Chapters[:0]
			found := false
			for _, ch := range w.Chapters {
				if ch.ID == args[1] {
					found = true
					continue
				}
				kept = append(kept, ch)
			}
			if !found {
				return domain.ErrChapterNotFound
			}
			w.Chapters = kept

			return e.Library.SaveWork(ctx, w)
		},
	}
}

func chaptersRecapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recap <work-id> <chapter-id>",
		Short: "Generate and store a chapter summary",
		Long:  "Asks the provider for a short recap and stores it on the chapter for later context windows.",
		Args:  cobra.ExactArgs(2),
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
			ch := w.Chapter(args[1])
			if ch == nil {
				return domain.ErrChapterNotFound
			}

			summary, err := e.Writer.Summarize(ctx, ch.Content)
			if err != nil {
				return err
			}
			ch.Summary = summary
			if err := e.Library.SaveWork(ctx, w); err != nil {
				return err
			}

			fmt.Println(summary)
			return nil
		},
	}
}
