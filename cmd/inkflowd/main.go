package main

import (
	"fmt"
	"os"

	"github.com/freefly-ai/inkflow/internal/cli"
	"github.com/freefly-ai/inkflow/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inkflowd",
		Short: "Inkflow sync server",
		Long:  "Inkflowd serves the record sync API that inkflow clients replicate against",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
