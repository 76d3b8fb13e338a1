package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Resolution errors, always attributable to one path.
var (
	// ErrHandlerNotFound is returned when no registered pattern matches a path.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrFileNotVersioned is returned for absolute paths outside the tracked root.
	ErrFileNotVersioned = errors.New("file not versioned")

	// ErrHandlerChangeForbidden is returned when a rename would move a document
	// from one handler kind to another.
	ErrHandlerChangeForbidden = errors.New("handler change forbidden")
)

// Loading, parsing and processing errors.
var (
	// ErrFileLoading wraps any failure to read or deserialize a source file.
	ErrFileLoading = errors.New("file loading error")

	// ErrUndecodable is returned when a text source is not valid UTF-8.
	ErrUndecodable = errors.New("undecodable content")

	// ErrSourceMalformed is returned when raw content cannot be deserialized.
	ErrSourceMalformed = errors.New("source malformed")

	// ErrSourceParsing is returned when a single field cannot be extracted.
	ErrSourceParsing = errors.New("source parsing error")

	// ErrFileProcessing is returned when a processed attribute is invalid.
	ErrFileProcessing = errors.New("file processing error")

	// ErrPathScanning is returned when an attribute cannot be derived from a path.
	ErrPathScanning = errors.New("path scanning error")

	// ErrInvalidFile is returned by handlers when processing collected errors.
	ErrInvalidFile = errors.New("invalid file")
)

// Persistence and run-level errors.
var (
	// ErrDatabase marks failures coming from the persistent store.
	ErrDatabase = errors.New("database error")

	// ErrPlanFailed is returned when the change set could not be planned.
	ErrPlanFailed = errors.New("update plan failed")

	// ErrRunFailed is returned when at least one item of a run failed.
	ErrRunFailed = errors.New("update run failed")

	// ErrInvalidState is returned when a runner operation is called out of order.
	ErrInvalidState = errors.New("invalid runner state")

	// ErrRunInProgress is returned when another run holds the lock.
	ErrRunInProgress = errors.New("another update is in progress")
)

// PathErrors maps source paths to the error they produced.
type PathErrors map[string]error

// Paths returns the keys in lexical order.
func (e PathErrors) Paths() []string {
	paths := make([]string, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// String renders one "path: error" line per entry.
func (e PathErrors) String() string {
	var sb strings.Builder
	for _, p := range e.Paths() {
		fmt.Fprintf(&sb, "%s: %v\n", p, e[p])
	}
	return sb.String()
}

// FieldError reports a field that could not be parsed from a source.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func (e *FieldError) Is(target error) bool { return target == ErrSourceParsing }

// Fieldf builds a FieldError with a formatted message.
func Fieldf(field, format string, args ...any) error {
	return &FieldError{Field: field, Err: fmt.Errorf(format, args...)}
}

// InvalidFileError aggregates every error collected while processing one file.
type InvalidFileError struct {
	Path   string
	Errors []error
}

// NewInvalidFile returns nil when errs is empty.
func NewInvalidFile(path string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &InvalidFileError{Path: path, Errors: errs}
}

func (e *InvalidFileError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid file %s: %s", e.Path, strings.Join(msgs, "; "))
}

func (e *InvalidFileError) Unwrap() []error { return e.Errors }

func (e *InvalidFileError) Is(target error) bool { return target == ErrInvalidFile }

// PlanError is returned when a change set cannot be turned into a runnable plan,
// either because the differ failed or because some paths could not be resolved.
type PlanError struct {
	Errors PathErrors
	Err    error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", ErrPlanFailed, e.Err)
	}
	return fmt.Sprintf("%v: %d unresolved path(s)\n%s", ErrPlanFailed, len(e.Errors), e.Errors)
}

func (e *PlanError) Unwrap() error { return e.Err }

func (e *PlanError) Is(target error) bool { return target == ErrPlanFailed }

// RunError carries the merged per-path errors of a failed run.
type RunError struct {
	Errors PathErrors
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%v: %d failed path(s)\n%s", ErrRunFailed, len(e.Errors), e.Errors)
}

func (e *RunError) Is(target error) bool { return target == ErrRunFailed }

// DBError marks err as a persistence failure unless it already is one.
func DBError(err error) error {
	if err == nil || errors.Is(err, ErrDatabase) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatabase, err)
}

// Document store errors.
var (
	// ErrDocumentExists is returned when inserting a source path already stored.
	ErrDocumentExists = errors.New("document already exists")

	// ErrDocumentNotFound is returned when no document is stored for a source path.
	ErrDocumentNotFound = errors.New("document not found")
)

// Messages returns the error text of every path, for serialization.
func (e PathErrors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for p, err := range e {
		out[p] = err.Error()
	}
	return out
}
