package client

import (
	"fmt"

	"github.com/freefly-ai/inkflow/internal/service"
	"github.com/spf13/cobra"
)

// SelectCmd creates the select command.
func SelectCmd() *cobra.Command {
	var (
		entryIDs    []string
		instruction string
	)

	cmd := &cobra.Command{
		Use:   "select <work-id>",
		Short: "Preview a knowledge context selection",
		Long: `Shows which knowledge entries would be sent as context for a
generation. With --entries the selection is manual; otherwise the
provider picks entries for the given instruction.`,
		Args: cobra.ExactArgs(1),
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

			var selection service.Selection
			if len(entryIDs) > 0 {
				selection = e.Selector.ManualSelect(w, entryIDs)
			} else {
				if err := e.requireAI(); err != nil {
					return err
				}
				selection = e.Selector.SmartSelect(ctx, w, instruction)
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(selection)
			}

			names := w.CategoryNames()
			for _, id := range selection.EntryIDs {
				entry := w.Entry(id)
				fmt.Printf("%s  [%s] %s\n", entry.ID, names[entry.CategoryID], entry.Title)
			}
			fmt.Printf("%d entries, %d chars of context\n",
				len(selection.EntryIDs), selection.CharCount)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&entryIDs, "entries", nil, "Explicit entry ids (skips the provider)")
	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "Instruction to select context for")

	return cmd
}
