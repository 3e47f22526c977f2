package qcgc

import "fmt"

// ErrorKind classifies a fatal collector condition (spec.md §7).
type ErrorKind int

const (
	ErrShadowStackOverflow ErrorKind = iota
	ErrInvariantViolation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrShadowStackOverflow:
		return "shadow stack overflow"
	case ErrInvariantViolation:
		return "invariant violation"
	default:
		return "unknown fatal error"
	}
}

// FatalError is the only error type the collector's fatal path produces.
// Allocation failure is the sole recoverable error (spec.md §7) and is
// reported as a nil Object, not a FatalError.
type FatalError struct {
	Kind    ErrorKind
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("qcgc: %s: %s", e.Kind, e.Message)
}

// fatalf logs the diagnostic then invokes the collector's panic hook.
// The default hook panics with a *FatalError; hosts (and tests) that want
// to recover instead of crashing the process install their own hook.
func (c *Collector) fatalf(kind ErrorKind, format string, args ...interface{}) {
	err := &FatalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	c.logger().Event(LogQuiet, EventDiagnostic, F("kind", kind.String()), F("message", err.Message))
	c.panicHook(err)
}
