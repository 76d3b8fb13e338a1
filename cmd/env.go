package cmd

import (
	"context"
	"fmt"
	"os"

	"content-manager/core/config"
	"content-manager/core/content"
	"content-manager/core/database"
	"content-manager/core/filelock"
	"content-manager/core/git"
	"content-manager/core/logger"
	"content-manager/core/storage"
	"content-manager/feature/catalog"
	"content-manager/feature/update"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment holds the collaborators shared by the commands.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	repo    *git.Repository
	store   storage.Client
	manager *content.Manager
	service *update.Service
}

// setup loads the configuration and connects every collaborator.
func setup(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	repo, err := git.Open(ctx, cfg.Content.Root)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}

	registry, err := catalog.Registry(cfg.Content)
	if err != nil {
		return nil, err
	}

	l = l.With(zap.String("root", repo.Path()))
	manager := content.NewManager(content.ManagerOptions{
		Registry: registry,
		Differ:   repo,
		Begin:    database.Beginner(db),
		Root:     repo.Path(),
		Storage:  store,
		Bucket:   cfg.Storage.Bucket,
		Renderer: renderer(cfg.Content.Colour),
		Locker:   filelock.ForRoot(repo.Path(), cfg.Content.LockFile),
		Logger:   l,
	})

	return &environment{
		cfg:     cfg,
		logger:  l,
		db:      db,
		repo:    repo,
		store:   store,
		manager: manager,
		service: update.NewService(manager, repo, db, repo.Path(), l),
	}, nil
}

func renderer(colour string) *content.Renderer {
	switch colour {
	case "always":
		return content.NewRenderer(true)
	case "never":
		return content.NewRenderer(false)
	default:
		return content.NewRendererFor(os.Stdout)
	}
}

func (e *environment) close() {
	_ = e.logger.Sync()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
