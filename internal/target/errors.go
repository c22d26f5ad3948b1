package target

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateTarget    = errors.New("target already exists")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrCircularDependency = errors.New("circular dependency")
)

// Error describes a registry or graph failure for a specific target.
type Error struct {
	// Kind is one of the sentinel errors of this package.
	Kind error
	// Target is the target the operation was applied to.
	Target string
	// Dependency is set for dependency-related failures.
	Dependency string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case errors.Is(e.Kind, ErrCircularDependency):
		return fmt.Sprintf("task %q has a circular dependency on %q", e.Target, e.Dependency)
	case e.Dependency != "":
		return fmt.Sprintf("%s: %q (required by %q)", e.Kind, e.Dependency, e.Target)
	default:
		return fmt.Sprintf("%s: %q", e.Kind, e.Target)
	}
}

func (e *Error) Unwrap() error { return e.Kind }

// UnknownTarget returns an ErrUnknownTarget error for name.
func UnknownTarget(name string) error {
	return &Error{Kind: ErrUnknownTarget, Target: name}
}
