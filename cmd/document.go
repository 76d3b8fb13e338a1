package cmd

import (
	"context"
	"fmt"

	"content-manager/core/content"

	"github.com/spf13/cobra"
)

// documentCmd is the parent command of single document operations.
var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Add, modify, rename or delete one document",
	Long: `Apply one source file to the database, outside of any git diff.
Each operation runs in its own transaction.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Insert the document of a new source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, m *content.Manager) error {
			record, err := m.Add(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s: %v\n", args[0], record)
			return nil
		})
	},
}

var documentModifyCmd = &cobra.Command{
	Use:   "modify <path>",
	Short: "Update the document of a modified source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, m *content.Manager) error {
			record, err := m.Modify(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "modified %s: %v\n", args[0], record)
			return nil
		})
	},
}

var documentRenameCmd = &cobra.Command{
	Use:   "rename <source> <target>",
	Short: "Move a document to a new source path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, m *content.Manager) error {
			record, err := m.Rename(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s -> %s: %v\n", args[0], args[1], record)
			return nil
		})
	},
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete the document of a removed source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, m *content.Manager) error {
			if err := m.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

func withManager(fn func(ctx context.Context, m *content.Manager) error) error {
	ctx := context.Background()
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()
	return fn(ctx, env.manager)
}

func init() {
	documentCmd.AddCommand(documentAddCmd, documentModifyCmd, documentRenameCmd, documentDeleteCmd)
	RootCmd.AddCommand(documentCmd)
}
