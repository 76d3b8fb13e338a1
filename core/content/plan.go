package content

import (
	"errors"
	"fmt"
)

// Item is a resolved path and the handler that will process it.
type Item struct {
	Path    string
	Handler Handler
}

// RenameItem pairs the handlers resolved for the old and the new path.
// Both handlers are always of the same kind.
type RenameItem struct {
	Source Item
	Target Item
}

// Plan is the handler-grouped classification of a change set.
// It is built once and never modified afterwards.
type Plan struct {
	Added    []Item
	Modified []Item
	Renamed  []RenameItem
	Deleted  []Item

	// Errors holds the paths that could not be resolved. Any entry fails the run.
	Errors PathErrors

	// Forbidden holds renames rejected because the document would change
	// handler kind, keyed by the old path. They are reported as rename
	// failures of the run without stopping the other items.
	Forbidden PathErrors
}

// Len returns the number of runnable items.
func (p *Plan) Len() int {
	return len(p.Added) + len(p.Modified) + len(p.Renamed) + len(p.Deleted)
}

// Empty reports whether there is nothing to run.
func (p *Plan) Empty() bool {
	return p.Len() == 0
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	Added    int `json:"added"`
	Modified int `json:"modified"`
	Renamed  int `json:"renamed"`
	Deleted  int `json:"deleted"`
	Errors   int `json:"errors"`
}

// Summary returns aggregate counts.
func (p *Plan) Summary() PlanSummary {
	return PlanSummary{
		Added:    len(p.Added),
		Modified: len(p.Modified),
		Renamed:  len(p.Renamed),
		Deleted:  len(p.Deleted),
		Errors:   len(p.Errors) + len(p.Forbidden),
	}
}

// Planner turns change sets into plans.
type Planner struct {
	resolver *Resolver
}

// NewPlanner creates a planner.
func NewPlanner(resolver *Resolver) *Planner {
	return &Planner{resolver: resolver}
}

// Plan resolves every path of changes. Paths that cannot be resolved are
// recorded in Plan.Errors and never stop the resolution of the others.
func (p *Planner) Plan(changes *ChangeSet) *Plan {
	plan := &Plan{Errors: PathErrors{}, Forbidden: PathErrors{}}

	plan.Added = p.resolveAll(changes.Added, plan.Errors)
	plan.Modified = p.resolveAll(changes.Modified, plan.Errors)
	plan.Deleted = p.resolveAll(changes.Deleted, plan.Errors)

	for _, rename := range changes.Renamed {
		item, err := p.resolveRename(rename)
		switch {
		case errors.Is(err, ErrHandlerChangeForbidden):
			plan.Forbidden[rename.From] = err
			continue
		case err != nil:
			plan.Errors[rename.From] = err
			continue
		}
		plan.Renamed = append(plan.Renamed, item)
	}
	plan.Renamed = groupByKind(plan.Renamed, renameKind)

	return plan
}

func (p *Planner) resolveAll(paths []string, errs PathErrors) []Item {
	items := make([]Item, 0, len(paths))
	for _, path := range paths {
		handler, err := p.resolver.Resolve(path)
		if err != nil {
			errs[path] = err
			continue
		}
		items = append(items, Item{Path: handler.Path(), Handler: handler})
	}
	return groupByKind(items, itemKind)
}

func (p *Planner) resolveRename(rename Rename) (RenameItem, error) {
	src, err := p.resolver.Resolve(rename.From)
	if err != nil {
		return RenameItem{}, err
	}
	dst, err := p.resolver.Resolve(rename.To)
	if err != nil {
		return RenameItem{}, err
	}
	if !SameKind(src, dst) {
		return RenameItem{}, fmt.Errorf("%w: %s (%s) -> %s (%s)",
			ErrHandlerChangeForbidden, src.Path(), src.Kind(), dst.Path(), dst.Kind())
	}
	return RenameItem{
		Source: Item{Path: src.Path(), Handler: src},
		Target: Item{Path: dst.Path(), Handler: dst},
	}, nil
}

// groupByKind orders items by handler kind, kinds in first-seen order,
// keeping the original order inside each kind.
func groupByKind[T any](items []T, kind func(T) string) []T {
	order, groups := []string{}, map[string][]T{}
	for _, item := range items {
		k := kind(item)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], item)
	}

	grouped := make([]T, 0, len(items))
	for _, k := range order {
		grouped = append(grouped, groups[k]...)
	}
	return grouped
}

func itemKind(item Item) string { return item.Handler.Kind() }

func renameKind(item RenameItem) string { return item.Source.Handler.Kind() }
