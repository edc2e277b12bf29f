package client

import (
	"fmt"
	"os"
	"strings"

	"github.com/freefly-ai/inkflow/internal/service"
	"github.com/spf13/cobra"
)

// WriteCmd creates the write command.
func WriteCmd() *cobra.Command {
	var (
		chapterID   string
		instruction string
		entryIDs    []string
		smart       bool
		words       int
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "write <work-id>",
		Short: "Generate a story segment",
		Long: `Streams a generated continuation of the given chapter to stdout.

Knowledge context comes from --entries (explicit ids), or from --smart,
which asks the provider to pick the relevant entries for the instruction.
Outline entries are always included in smart mode.`,
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

			var selection service.Selection
			switch {
			case smart:
				selection = e.Selector.SmartSelect(ctx, w, instruction)
			case len(entryIDs) > 0:
				selection = e.Selector.ManualSelect(w, entryIDs)
			}
			if len(selection.References) > 0 {
				fmt.Fprintf(os.Stderr, "using %d knowledge entries (%d chars)\n",
					len(selection.EntryIDs), selection.CharCount)
			}

			text, err := e.Writer.GenerateSegment(ctx, service.GenerateSegmentInput{
				Work:            w,
				ChapterID:       chapterID,
				Instruction:     instruction,
				References:      selection.References,
				TargetWordCount: words,
			}, func(chunk string) {
				fmt.Print(chunk)
			})
			if err != nil {
				return err
			}
			fmt.Println()

			if save {
				ch := w.Chapter(chapterID)
				if ch.Content != "" && !strings.HasSuffix(ch.Content, "\n") {
					ch.Content += "\n"
				}
				ch.Content += text
				if err := e.Library.SaveWork(ctx, w); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "appended %d chars to %s\n", len([]rune(text)), ch.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&chapterID, "chapter", "c", "", "Chapter to continue (required)")
	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "What should happen in this segment")
	cmd.Flags().StringSliceVar(&entryIDs, "entries", nil, "Knowledge entry ids to include as context")
	cmd.Flags().BoolVar(&smart, "smart", false, "Let the provider pick relevant knowledge entries")
	cmd.Flags().IntVarP(&words, "words", "w", 0, "Target word count")
	cmd.Flags().BoolVar(&save, "save", false, "Append the generated text to the chapter")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}

// IdeasCmd creates the ideas command.
func IdeasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ideas <topic>",
		Short: "Brainstorm story ideas for a topic",
		Args:  cobra.ExactArgs(1),
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

			ideas, err := e.Writer.GenerateIdeas(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ideas)
			return nil
		},
	}
}
