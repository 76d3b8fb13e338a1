package cmd

import (
	"context"
	"fmt"

	"content-manager/core/database"
	"content-manager/feature/asset"
	"content-manager/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pruneOrphans bool

// schemaCmd checks the database and the storage against the document types.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the document tables and the stored assets",
	Long: `Report missing tables and columns, and the stored objects no asset refers to.
With --prune, those objects are deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.close()
		out := cmd.OutOrStdout()

		issues, err := database.CheckSchema(env.db, catalog.Models()...)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			fmt.Fprintf(out, "schema: %s\n", issue)
		}

		bucket, prefix := env.cfg.Storage.Bucket, env.cfg.Content.AssetPrefix
		if !pruneOrphans {
			orphans, err := asset.Orphans(ctx, env.db, env.store, bucket, prefix)
			if err != nil {
				return err
			}
			for _, name := range orphans {
				fmt.Fprintf(out, "orphan: %s\n", name)
			}
			env.logger.Info("Schema checked", zap.Int("issues", len(issues)), zap.Int("orphans", len(orphans)))
			return nil
		}

		removed, err := asset.Prune(ctx, env.db, env.store, bucket, prefix)
		for _, name := range removed {
			fmt.Fprintf(out, "removed: %s\n", name)
		}
		if err != nil {
			return err
		}
		env.logger.Info("Schema checked", zap.Int("issues", len(issues)), zap.Int("removed", len(removed)))
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&pruneOrphans, "prune", false, "Delete stored objects no asset refers to")
	RootCmd.AddCommand(schemaCmd)
}
