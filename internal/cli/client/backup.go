package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/spf13/cobra"
)

// BackupCmd creates the backup command group.
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore the full library",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupRestoreCmd())
	cmd.AddCommand(backupUploadCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup file",
		Long:  "Exports every work, prompt template, prompt category and the usage stats into one JSON file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			b, err := e.Backup.Export(ctx)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return err
			}

			if out == "-" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Printf("Exported %d works to %s\n", len(b.Works), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "inkflow-backup.json", "Output path ('-' for stdout)")

	return cmd
}

func backupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore from a backup file",
		Long: `Imports a backup additively: records in the file replace records
with the same id, everything else is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var b domain.Backup
			if err := json.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("failed to parse backup file: %w", err)
			}

			if err := e.Backup.Restore(ctx, &b); err != nil {
				return err
			}
			fmt.Printf("Restored %d works, %d prompt templates.\n",
				len(b.Works), len(b.PromptTemplates))
			return nil
		},
	}
}

func backupUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Export and upload a backup to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := NewEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			key, err := e.Backup.Upload(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded backup to %s/%s\n", e.Config.S3Bucket, key)
			return nil
		},
	}
}
