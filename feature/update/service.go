package update

import (
	"context"
	"errors"
	"fmt"

	"content-manager/core/content"
	"content-manager/core/database"
	"content-manager/core/git"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Revisions resolves revisions to commit hashes.
type Revisions interface {
	RevParse(ctx context.Context, rev string) (string, error)
}

// Request selects the revisions to reconcile.
type Request struct {
	// Since is the revision already reflected in the database. When empty, the
	// last synchronized revision is used, or the empty tree if there is none.
	Since string `json:"since"`
	// Until defaults to HEAD.
	Until string `json:"until"`
	// All reconciles from the empty tree, ignoring Since.
	All bool `json:"all"`
	// DryRun plans without running.
	DryRun bool `json:"dry_run"`
}

// Response describes a plan and, unless it was a dry run, its outcome.
type Response struct {
	RunID     string              `json:"run_id"`
	Since     string              `json:"since"`
	Until     string              `json:"until"`
	Summary   content.PlanSummary `json:"summary"`
	Plan      PlanView            `json:"plan"`
	Result    *content.Result     `json:"result,omitempty"`
	Errors    map[string]string   `json:"errors,omitempty"`
	Committed bool                `json:"committed"`

	runner *content.Runner
}

// Runner returns the runner that produced the response, for rendering.
func (r *Response) Runner() *content.Runner {
	return r.runner
}

// PlanView lists the planned paths per category.
type PlanView struct {
	Added    []string         `json:"added"`
	Modified []string         `json:"modified"`
	Renamed  []content.Rename `json:"renamed"`
	Deleted  []string         `json:"deleted"`
}

func viewOf(plan *content.Plan) PlanView {
	paths := func(items []content.Item) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Path
		}
		return out
	}
	renamed := make([]content.Rename, len(plan.Renamed))
	for i, item := range plan.Renamed {
		renamed[i] = content.Rename{From: item.Source.Path, To: item.Target.Path}
	}
	return PlanView{
		Added:    paths(plan.Added),
		Modified: paths(plan.Modified),
		Renamed:  renamed,
		Deleted:  paths(plan.Deleted),
	}
}

// Service runs content updates and remembers the last synchronized revision.
type Service struct {
	manager   *content.Manager
	revisions Revisions
	db        *gorm.DB
	root      string
	logger    *zap.Logger

	sf singleflight.Group
}

// NewService creates a new update service. root keys the sync state.
func NewService(manager *content.Manager, revisions Revisions, db *gorm.DB, root string, logger *zap.Logger) *Service {
	return &Service{
		manager:   manager,
		revisions: revisions,
		db:        db,
		root:      root,
		logger:    logger,
	}
}

// Preview plans the request without touching the database.
func (s *Service) Preview(ctx context.Context, req Request) (*Response, error) {
	req.DryRun = true
	return s.Update(ctx, req)
}

// Update reconciles the database with the requested revisions. Identical
// concurrent requests share one run.
func (s *Service) Update(ctx context.Context, req Request) (*Response, error) {
	since, until, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s..%s:%t", since, until, req.DryRun)
	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		runCtx, cancel := detach(ctx)
		defer cancel()
		return s.run(runCtx, since, until, req.DryRun)
	})
	if shared {
		s.logger.Debug("Update shared with a concurrent request", zap.String("range", key))
	}
	resp, _ := v.(*Response)
	return resp, err
}

// detach returns a context that outlives the cancellation of ctx, so a shared
// run is not aborted when the caller that started it goes away. The deadline
// of ctx still applies.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return detached, func() {}
}

// resolve turns the request into two commit hashes.
func (s *Service) resolve(ctx context.Context, req Request) (string, string, error) {
	until := req.Until
	if until == "" {
		until = "HEAD"
	}
	until, err := s.revisions.RevParse(ctx, until)
	if err != nil {
		return "", "", err
	}

	since := req.Since
	switch {
	case req.All:
		since = git.EmptyTree
	case since == "":
		last, err := database.LastRevision(ctx, s.db, s.root)
		if err != nil {
			return "", "", content.DBError(err)
		}
		if last == "" {
			last = git.EmptyTree
		}
		since = last
	}
	since, err = s.revisions.RevParse(ctx, since)
	if err != nil {
		return "", "", err
	}
	return since, until, nil
}

func (s *Service) run(ctx context.Context, since, until string, dryRun bool) (*Response, error) {
	unlock, err := s.manager.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	runner, err := s.manager.LoadChanges(ctx, since, until)
	if err != nil {
		return nil, err
	}
	resp := &Response{RunID: runner.ID(), Since: since, Until: until, runner: runner}

	plan, err := runner.Plan(ctx)
	if err != nil {
		return resp, err
	}
	resp.Summary = plan.Summary()
	resp.Plan = viewOf(plan)

	if dryRun {
		runner.Abort()
		errs := content.PathErrors{}
		for _, m := range []content.PathErrors{plan.Errors, plan.Forbidden} {
			for p, e := range m {
				errs[p] = e
			}
		}
		if len(errs) > 0 {
			resp.Errors = errs.Messages()
		}
		return resp, nil
	}

	runner.BeforeCommit(func(ctx context.Context, tx *gorm.DB) error {
		return database.SaveRevision(ctx, tx, s.root, until)
	})
	result, err := runner.Run(ctx)
	if result != nil {
		resp.Result = &result.Result
	}

	var planErr *content.PlanError
	var runErr *content.RunError
	switch {
	case errors.As(err, &planErr):
		resp.Errors = planErr.Errors.Messages()
	case errors.As(err, &runErr):
		resp.Errors = runErr.Errors.Messages()
	case err == nil:
		resp.Committed = true
	}
	return resp, err
}
