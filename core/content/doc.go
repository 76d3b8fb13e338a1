// Package content keeps the document tables in sync with the source files of a
// git working tree.
//
// # Architecture
//
// An update goes through four components:
//
// 1. Registry and Resolver: an ordered list of glob patterns mapped to handler
// factories. The first matching pattern wins, so registration order is the
// precedence order.
//
// 2. Planner: resolves every path of a ChangeSet and groups the handlers by kind.
// Unresolvable paths are kept as planning errors instead of aborting.
//
// 3. Runner: a single-use state machine (created, planned, ran, committed or
// rolled back) executing adds, modifications, renames and deletions in that
// order, inside one transaction. It commits only when no item failed.
//
// 4. Handlers, processors and parsers: a Handler owns a processor bound to one
// path. Processors and parsers declare their operations with Guard and
// GuardField so that, inside a CollectErrors window, every malformed field is
// collected instead of stopping at the first one.
//
// # Usage Example
//
//	registry := content.NewRegistry().
//	    MustRegister("blog/**/*.md", article.NewHandler).
//	    MustRegister("assets/**", asset.Factory("content"))
//
//	manager := content.NewManager(content.ManagerOptions{
//	    Registry: registry,
//	    Differ:   repo,
//	    Begin:    database.Beginner(db),
//	    Root:     repo.Path(),
//	})
//
//	runner, err := manager.Update(ctx, since, "HEAD")
//	if errors.Is(err, content.ErrRunFailed) {
//	    report, _ := runner.Report()
//	    fmt.Print(report)
//	}
package content
