package ptw

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError reports that source text did not match the grammar in
// section 4.1: an Expr/Or/And/Not/Unary/Atom/Field production failed to
// recognize a prefix of the input.
type ParseError struct {
	Expr string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ptw: parse error in %q: %s", e.Expr, e.Msg)
}

// ValidationError reports that a constructed value fell outside a
// field's bounds, or that a registry ID was already taken when
// overwrite was forbidden.
type ValidationError struct {
	Field string
	Value int
	Min   int
	Max   int
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("ptw: validation error: %s", e.Msg)
	}
	return fmt.Sprintf("ptw: validation error: value %d for field %s out of bounds [%d, %d]",
		e.Value, e.Field, e.Min, e.Max)
}

// IndexOutOfBoundsError reports an invalid index passed to a
// programmatic mutator such as GetValue/RemoveValue/AddValue.
type IndexOutOfBoundsError struct {
	Index int
	Len   int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("ptw: index %d out of bounds for length %d", e.Index, e.Len)
}

// ReferenceError reports that resolving a REF[...] block failed: no
// registry was supplied, the ID was not found, or (per the cycle-
// detection improvement noted in spec.md section 9) resolving the ID
// would re-enter a block already on the current evaluation path.
type ReferenceError struct {
	ID     string
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("ptw: reference error for %q: %s", e.ID, e.Reason)
}

// InvalidIDError reports that a reference/registry ID contained
// characters outside [A-Za-z0-9]+.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("ptw: invalid id %q: must be alphanumeric", e.ID)
}

// wrapf annotates err with additional context using pkg/errors, the
// same wrapping convention used across the wider tracing toolchain this
// module's dependency set is drawn from. It is used internally wherever
// an error crosses a component boundary (parser -> block construction,
// reference resolution, and evaluation of a registered schedule).
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
