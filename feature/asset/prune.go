package asset

import (
	"context"
	"fmt"
	"strings"

	"content-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// Orphans lists the objects under prefix that no asset row refers to.
func Orphans(ctx context.Context, db *gorm.DB, client storage.Client, bucket, prefix string) ([]string, error) {
	var names []string
	if err := db.WithContext(ctx).Model(&Asset{}).Pluck("object_name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}

	opts := minio.ListObjectsOptions{Recursive: true}
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		opts.Prefix = prefix + "/"
	}

	var orphans []string
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if _, ok := known[obj.Key]; !ok {
			orphans = append(orphans, obj.Key)
		}
	}
	return orphans, nil
}

// Prune removes the orphaned objects and returns their names.
func Prune(ctx context.Context, db *gorm.DB, client storage.Client, bucket, prefix string) ([]string, error) {
	orphans, err := Orphans(ctx, db, client, bucket, prefix)
	if err != nil {
		return nil, err
	}
	for i, name := range orphans {
		if err := client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return orphans[:i], fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return orphans, nil
}
