package cmd

import (
	"context"
	"fmt"

	"content-manager/core/database"
	"content-manager/core/storage"
	"content-manager/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates the document tables and the asset bucket.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the document tables and the asset bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.close()

		if err := database.Migrate(env.db, catalog.Models()...); err != nil {
			return err
		}
		env.logger.Info("Tables migrated", zap.Int("models", len(catalog.Models())))

		if err := storage.EnsureBucket(ctx, env.store, env.cfg.Storage.Bucket, env.cfg.Storage.Region); err != nil {
			return fmt.Errorf("failed to prepare storage: %w", err)
		}
		env.logger.Info("Bucket ready", zap.String("bucket", env.cfg.Storage.Bucket))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
