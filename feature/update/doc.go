// Package update exposes content updates: a Service shared by the CLI and
// the HTTP API, and the fiber routes of the API.
//
// The Service resolves the requested revisions, diffs from the last
// synchronized revision when none is given, and stores the new revision in
// the same transaction as the documents.
//
// # HTTP Endpoints
//
//   - GET /content/preview?since=&until=&all= : plan an update without running it.
//   - POST /content/update {"since","until","all","dry_run"} : run an update.
//     Per-path failures answer 422 with an "errors" map; a concurrent run
//     answers 409.
package update
