package client

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const envTemplate = `# inkflow configuration
# Storage: "local" keeps everything in a single SQLite file,
# "remote" syncs against an inkflowd server with local fallback.
INKFLOW_STORAGE_MODE=local
INKFLOW_LOCAL_DB_PATH=inkflow.db
#INKFLOW_REMOTE_URL=http://localhost:8080

# AI provider (required for write/evolve/check/ideas)
#INKFLOW_OPENAI_API_KEY=sk-...
#INKFLOW_OPENAI_BASE_URL=
#INKFLOW_OPENAI_MODEL=

# Optional: off-site backup target
#INKFLOW_S3_ENDPOINT=
#INKFLOW_S3_ACCESS_KEY_ID=
#INKFLOW_S3_SECRET_ACCESS_KEY=
#INKFLOW_S3_BUCKET=inkflow-backups
`

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter .env configuration",
		Long:  "Writes a commented .env file in the current directory for inkflow to load.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing .env")

	return cmd
}

func runInit(force bool) error {
	if _, err := os.Stat(".env"); err == nil && !force {
		return fmt.Errorf(".env already exists (use --force to overwrite)")
	}

	if err := os.WriteFile(".env", []byte(envTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}

	fmt.Println("Wrote .env - edit it, then run 'inkflow works create' to start a work.")
	return nil
}
