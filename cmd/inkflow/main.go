package main

import (
	"fmt"
	"os"

	"github.com/freefly-ai/inkflow/internal/cli"
	"github.com/freefly-ai/inkflow/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "inkflow",
		Short: "Inkflow CLI - AI-assisted long-form fiction writing",
		Long: `Inkflow manages novels with an evolving knowledge base and an AI
writing assistant. Storage is a local SQLite file, optionally synced
against an inkflowd server.

Configuration is read from the environment and an optional .env file;
run 'inkflow init' to create one.`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.WorksCmd())
	rootCmd.AddCommand(client.ChaptersCmd())
	rootCmd.AddCommand(client.KBCmd())
	rootCmd.AddCommand(client.SelectCmd())
	rootCmd.AddCommand(client.WriteCmd())
	rootCmd.AddCommand(client.IdeasCmd())
	rootCmd.AddCommand(client.EvolveCmd())
	rootCmd.AddCommand(client.CheckCmd())
	rootCmd.AddCommand(client.PromptsCmd())
	rootCmd.AddCommand(client.BackupCmd())
	rootCmd.AddCommand(client.StatsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
