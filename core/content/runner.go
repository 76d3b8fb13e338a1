package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// State is a step of the runner lifecycle.
type State string

const (
	StateCreated    State = "created"
	StatePlanned    State = "planned"
	StateRan        State = "ran"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// Result holds the records produced by a run, keyed by source path.
// Renamed records are keyed by the old path.
type Result struct {
	Added    map[string]Record `json:"added"`
	Modified map[string]Record `json:"modified"`
	Renamed  map[string]Record `json:"renamed"`
	Deleted  []string          `json:"deleted"`
}

// RunErrors holds the per-path errors of each category.
type RunErrors struct {
	Added    PathErrors
	Modified PathErrors
	Renamed  PathErrors
	Deleted  PathErrors
}

// RunResult is the outcome of a run.
type RunResult struct {
	Result Result
	Errors RunErrors
}

func newRunResult() *RunResult {
	return &RunResult{
		Result: Result{
			Added:    map[string]Record{},
			Modified: map[string]Record{},
			Renamed:  map[string]Record{},
		},
		Errors: RunErrors{
			Added:    PathErrors{},
			Modified: PathErrors{},
			Renamed:  PathErrors{},
			Deleted:  PathErrors{},
		},
	}
}

// Clean reports whether no item failed.
func (r *RunResult) Clean() bool {
	e := r.Errors
	return len(e.Added)+len(e.Modified)+len(e.Renamed)+len(e.Deleted) == 0
}

// Merged flattens the errors of every category into one mapping.
func (r *RunResult) Merged() PathErrors {
	merged := PathErrors{}
	for _, errs := range []PathErrors{r.Errors.Added, r.Errors.Modified, r.Errors.Renamed, r.Errors.Deleted} {
		for path, err := range errs {
			merged[path] = err
		}
	}
	return merged
}

// Runner drives one reconciliation: diff, plan, run, then commit or roll back.
// A runner is single use and not safe for concurrent use.
type Runner struct {
	id       string
	state    State
	since    string
	until    string
	differ   Differ
	planner  *Planner
	tx       Transaction
	renderer *Renderer
	logger   *zap.Logger

	beforeCommit []CommitHook

	changes *ChangeSet
	plan    *Plan
	result  *RunResult
}

// CommitHook runs inside the run's transaction right before it commits.
// An error rolls the whole run back.
type CommitHook func(ctx context.Context, tx *gorm.DB) error

// RunnerOptions configures a runner.
type RunnerOptions struct {
	Since    string
	Until    string
	Differ   Differ
	Planner  *Planner
	Tx       Transaction
	Renderer *Renderer
	Logger   *zap.Logger
}

// NewRunner creates a runner in the Created state. Until defaults to HEAD.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Until == "" {
		opts.Until = "HEAD"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == nil {
		opts.Renderer = NewRenderer(false)
	}
	id := uuid.NewString()
	return &Runner{
		id:       id,
		state:    StateCreated,
		since:    opts.Since,
		until:    opts.Until,
		differ:   opts.Differ,
		planner:  opts.Planner,
		tx:       opts.Tx,
		renderer: opts.Renderer,
		logger:   opts.Logger.With(zap.String("run_id", id)),
	}
}

// ID returns the run identifier used in logs.
func (r *Runner) ID() string { return r.id }

// State returns the current lifecycle state.
func (r *Runner) State() State { return r.state }

// Changes returns the change set, nil before Plan.
func (r *Runner) Changes() *ChangeSet { return r.changes }

// CurrentPlan returns the plan, nil before Plan.
func (r *Runner) CurrentPlan() *Plan { return r.plan }

// Result returns the run outcome, nil before Run.
func (r *Runner) Result() *RunResult { return r.result }

// Plan computes the change set and resolves it. Unresolvable paths do not
// fail Plan; they are kept in the plan and fail Run instead.
func (r *Runner) Plan(ctx context.Context) (*Plan, error) {
	if r.state != StateCreated {
		return nil, fmt.Errorf("%w: cannot plan in state %s", ErrInvalidState, r.state)
	}

	changes, err := r.differ.Diff(ctx, r.since, r.until)
	if err != nil {
		r.rollback()
		return nil, &PlanError{Err: err}
	}

	r.changes = changes
	r.plan = r.planner.Plan(changes)
	r.state = StatePlanned

	r.logger.Debug("Plan computed",
		zap.String("since", r.since),
		zap.String("until", r.until),
		zap.Int("items", r.plan.Len()),
		zap.Int("errors", len(r.plan.Errors)))

	return r.plan, nil
}

// Run executes the plan and commits iff every item succeeded.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if r.state != StatePlanned {
		return nil, fmt.Errorf("%w: cannot run in state %s", ErrInvalidState, r.state)
	}

	if len(r.plan.Errors) > 0 {
		r.rollback()
		return nil, &PlanError{Errors: r.plan.Errors}
	}

	result := newRunResult()
	r.result = result

	r.runAdded(ctx, result)
	r.runModified(ctx, result)
	r.runRenamed(ctx, result)
	r.runDeleted(ctx, result)
	r.state = StateRan

	if !result.Clean() {
		r.rollback()
		return result, &RunError{Errors: result.Merged()}
	}

	for _, hook := range r.beforeCommit {
		if err := hook(ctx, r.tx.DB()); err != nil {
			r.logger.Error("Commit hook failed", zap.Error(err))
			r.rollback()
			return result, DBError(err)
		}
	}

	if err := r.tx.Commit(); err != nil {
		r.logger.Error("Commit failed", zap.Error(err))
		return result, DBError(err)
	}
	r.state = StateCommitted
	r.logger.Info("Run committed",
		zap.Int("added", len(result.Result.Added)),
		zap.Int("modified", len(result.Result.Modified)),
		zap.Int("renamed", len(result.Result.Renamed)),
		zap.Int("deleted", len(result.Result.Deleted)))
	return result, nil
}

// BeforeCommit registers a hook executed in the transaction before commit.
func (r *Runner) BeforeCommit(hook CommitHook) {
	r.beforeCommit = append(r.beforeCommit, hook)
}

// Execute runs Plan then Run.
func (r *Runner) Execute(ctx context.Context) (*RunResult, error) {
	if _, err := r.Plan(ctx); err != nil {
		return nil, err
	}
	return r.Run(ctx)
}

// Abort rolls the transaction back without running, for dry runs.
// It is a no-op once the runner has committed or rolled back.
func (r *Runner) Abort() {
	r.rollback()
}

// Preview renders the plan. It must be called after Plan.
func (r *Runner) Preview() (string, error) {
	if r.plan == nil {
		return "", fmt.Errorf("%w: nothing planned", ErrInvalidState)
	}
	return r.renderer.Preview(r.plan)
}

// Report renders the run outcome. It must be called after Run.
func (r *Runner) Report() (string, error) {
	if r.result == nil {
		return "", fmt.Errorf("%w: nothing ran", ErrInvalidState)
	}
	return r.renderer.Report(r.result)
}

func (r *Runner) runAdded(ctx context.Context, result *RunResult) {
	for _, item := range r.plan.Added {
		record, err := item.Handler.Insert(ctx)
		r.record(Added, item.Path, err)
		if err != nil {
			result.Errors.Added[item.Path] = err
			continue
		}
		result.Result.Added[item.Path] = record
	}
}

func (r *Runner) runModified(ctx context.Context, result *RunResult) {
	for _, item := range r.plan.Modified {
		record, err := item.Handler.Update(ctx)
		r.record(Modified, item.Path, err)
		if err != nil {
			result.Errors.Modified[item.Path] = err
			continue
		}
		result.Result.Modified[item.Path] = record
	}
}

func (r *Runner) runRenamed(ctx context.Context, result *RunResult) {
	for _, path := range r.plan.Forbidden.Paths() {
		err := r.plan.Forbidden[path]
		r.record(Renamed, path, err)
		result.Errors.Renamed[path] = err
	}
	for _, item := range r.plan.Renamed {
		src, dst := item.Source, item.Target
		if err := src.Handler.Rename(ctx, dst.Path); err != nil {
			r.record(Renamed, src.Path, err)
			result.Errors.Renamed[src.Path] = err
			continue
		}
		record, err := dst.Handler.Update(ctx)
		r.record(Renamed, src.Path, err)
		if err != nil {
			result.Errors.Renamed[src.Path] = err
			continue
		}
		result.Result.Renamed[src.Path] = record
	}
}

func (r *Runner) runDeleted(ctx context.Context, result *RunResult) {
	for _, item := range r.plan.Deleted {
		err := item.Handler.Delete(ctx)
		r.record(Deleted, item.Path, err)
		if err != nil {
			result.Errors.Deleted[item.Path] = err
			continue
		}
		result.Result.Deleted = append(result.Result.Deleted, item.Path)
	}
}

func (r *Runner) record(category Category, path string, err error) {
	fields := []zap.Field{zap.String("category", string(category)), zap.String("path", path)}
	if err != nil {
		r.logger.Debug("Item failed", append(fields, zap.Error(err))...)
		return
	}
	r.logger.Debug("Item processed", fields...)
}

// rollback rolls the transaction back once and moves to RolledBack.
func (r *Runner) rollback() {
	if r.state == StateRolledBack || r.state == StateCommitted {
		return
	}
	if r.tx != nil {
		if err := r.tx.Rollback(); err != nil {
			r.logger.Warn("Rollback failed", zap.Error(err))
		}
	}
	r.state = StateRolledBack
}
