package client

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show AI token usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			stats, err := e.Library.Usage(ctx)
			if err != nil {
				return err
			}

			if outputJSON, _ := cmd.Flags().GetBool("output"); outputJSON {
				return printJSON(stats)
			}

			fmt.Printf("Total: %d input / %d output tokens\n",
				stats.TotalInputTokens, stats.TotalOutputTokens)

			days := make([]string, 0, len(stats.DailyStats))
			for day := range stats.DailyStats {
				days = append(days, day)
			}
			sort.Strings(days)
			for _, day := range days {
				d := stats.DailyStats[day]
				fmt.Printf("  %s  %d in / %d out\n", day, d.InputTokens, d.OutputTokens)
			}
			return nil
		},
	}
}
