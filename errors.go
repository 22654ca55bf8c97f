// Package evolve compiles declarative object-model transformations into
// code-model changes and relational schema migrations.
package evolve

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common failure cases.
var (
	// ErrNotFound is returned when a class or property does not exist in the model.
	ErrNotFound = errors.New("evolve: not found")

	// ErrUnsupportedParameter is returned when the fluent text generator meets a
	// parameter outside its closed set of kinds.
	ErrUnsupportedParameter = errors.New("evolve: unsupported parameter kind")

	// ErrPrecondition is returned when a caller violates an operation precondition,
	// such as zipping column lists of different lengths.
	ErrPrecondition = errors.New("evolve: precondition violated")

	// ErrTransformation is matched by every TransformationError.
	ErrTransformation = errors.New("evolve: transformation failed")
)

// NotFoundError represents a missing class, property or table.
type NotFoundError struct {
	kind string // "class", "property", "table" ...
	name string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("evolve: %s %q not found", e.kind, e.name)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Kind returns the kind of the missing object.
func (e *NotFoundError) Kind() string { return e.kind }

// Name returns the name that was looked up.
func (e *NotFoundError) Name() string { return e.name }

// NewNotFoundError returns a new NotFoundError.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{kind: kind, name: name}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// UnsupportedParameterError is returned by the fluent text generator when a
// parameter value is not one of the recognized kinds.
type UnsupportedParameterError struct {
	Kind string // concrete kind name of the offending parameter
}

// Error returns the error string.
func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("evolve: cannot generate mapping information, parameter of kind %s is not supported", e.Kind)
}

// Is reports whether the target matches ErrUnsupportedParameter.
func (e *UnsupportedParameterError) Is(err error) bool {
	return err == ErrUnsupportedParameter
}

// NewUnsupportedParameterError returns a new UnsupportedParameterError.
func NewUnsupportedParameterError(kind string) *UnsupportedParameterError {
	return &UnsupportedParameterError{Kind: kind}
}

// IsUnsupportedParameter returns true if the error is an UnsupportedParameterError.
func IsUnsupportedParameter(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedParameterError
	return errors.As(err, &e)
}

// PreconditionError reports a caller error detected while building operations.
type PreconditionError struct {
	Op      string // operation being built, e.g. "insert-from"
	Message string
}

// Error returns the error string.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("evolve: %s: %s", e.Op, e.Message)
}

// Is reports whether the target matches ErrPrecondition.
func (e *PreconditionError) Is(err error) bool {
	return err == ErrPrecondition
}

// NewPreconditionError returns a new PreconditionError.
func NewPreconditionError(op, format string, args ...any) *PreconditionError {
	return &PreconditionError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsPrecondition returns true if the error is a PreconditionError.
func IsPrecondition(err error) bool {
	if err == nil {
		return false
	}
	var e *PreconditionError
	return errors.As(err, &e)
}

// Phases of a generation pass reported by TransformationError.
const (
	PhaseModel     = "model"
	PhaseMigration = "migration"
	PhaseCapture   = "capture"
)

// TransformationError identifies which transformation of a pass failed and why.
type TransformationError struct {
	Index          int    // position in the applied sequence
	Transformation string // variant name, e.g. "RenameClass"
	Phase          string // one of the Phase constants
	Err            error  // underlying error
}

// Error returns the error string.
func (e *TransformationError) Error() string {
	return fmt.Sprintf("evolve: %s transformation #%d (%s): %v", e.Phase, e.Index, e.Transformation, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransformationError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrTransformation.
func (e *TransformationError) Is(err error) bool {
	return err == ErrTransformation
}

// NewTransformationError returns a new TransformationError.
func NewTransformationError(index int, name, phase string, err error) *TransformationError {
	return &TransformationError{Index: index, Transformation: name, Phase: phase, Err: err}
}

// IsTransformationError returns true if the error is a TransformationError.
func IsTransformationError(err error) bool {
	if err == nil {
		return false
	}
	var e *TransformationError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("evolve: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "evolve: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("evolve: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// Ptr returns a pointer to v. It is used to set optional facets.
func Ptr[T any](v T) *T { return &v }
