package content

import (
	"context"
	"errors"
)

// Policy names the error kinds a guarded operation may have intercepted.
type Policy struct {
	Name  string
	Catch []error
}

// Catches reports whether err matches one of the policy's kinds.
func (p Policy) Catches(err error) bool {
	for _, kind := range p.Catch {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

var (
	// ScanPolicy applies to operations deriving attributes from a path.
	ScanPolicy = Policy{Name: "scan", Catch: []error{ErrPathScanning}}

	// ProcessPolicy applies to operations that need the parsed source.
	ProcessPolicy = Policy{Name: "process", Catch: []error{ErrFileProcessing, ErrSourceParsing, ErrFileLoading}}

	// ParsePolicy applies to parser field extractors.
	ParsePolicy = Policy{Name: "parse", Catch: []error{ErrSourceParsing}}
)

// Collector captures errors raised by guarded operations while a window is open.
// A collector belongs to exactly one processor or parser and is not safe for
// concurrent use.
type Collector struct {
	open bool
	errs []error
}

// Collect opens a window, runs fn and closes the window. It returns the errors
// captured during fn, plus whatever fn returned itself. The collected set is
// detached on return, so the next window starts empty. A nested window returns
// only its own captures and leaves the enclosing window's set intact.
func (c *Collector) Collect(fn func() error) ([]error, error) {
	prevOpen, prevErrs := c.open, c.errs
	c.open, c.errs = true, nil
	defer func() {
		c.open, c.errs = prevOpen, prevErrs
	}()

	err := fn()
	return c.errs, err
}

// Open reports whether a window is currently open.
func (c *Collector) Open() bool {
	return c.open
}

func (c *Collector) capture(p Policy, err error) bool {
	if !c.open || !p.Catches(err) {
		return false
	}
	c.errs = append(c.errs, err)
	return true
}

// Op is an operation of a file processor.
type Op[T any] func(ctx context.Context) (T, error)

// Guard wraps op so that, inside a window of c, errors matching p are captured
// and the zero value is returned with a nil error. Outside a window, errors
// propagate unchanged.
func Guard[T any](c *Collector, p Policy, op Op[T]) Op[T] {
	return func(ctx context.Context) (T, error) {
		v, err := op(ctx)
		if err != nil && c.capture(p, err) {
			var zero T
			return zero, nil
		}
		return v, err
	}
}

// Field is a parser field extractor.
type Field[T any] func() (T, error)

// GuardField is the Field counterpart of Guard.
func GuardField[T any](c *Collector, p Policy, f Field[T]) Field[T] {
	return func() (T, error) {
		v, err := f()
		if err != nil && c.capture(p, err) {
			var zero T
			return zero, nil
		}
		return v, err
	}
}
