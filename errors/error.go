package errors

import (
	"fmt"
)

// UnsupportedTypeError occurs when an aggregation requiring a total order is
// constructed without an Ordering for its element type. It is returned before
// any work is scheduled.
type UnsupportedTypeError struct{ Operation string }

// Error returns a textual representation of this UnsupportedTypeError
func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s requires an Ordering for its element type", e.Operation)
}

// EmptyAggregationError occurs when a scalar aggregation is resolved over zero
// elements. It surfaces at scalar resolution, not at pipeline construction.
type EmptyAggregationError struct{ Operation string }

// Error returns a textual representation of this EmptyAggregationError
func (e EmptyAggregationError) Error() string {
	return fmt.Sprintf("%s over an empty collection has no result", e.Operation)
}

// WrongElementTypeError occurs when a dataset element does not have the type a
// transform was constructed for. This indicates a pipeline wired across
// mismatched handles.
type WrongElementTypeError struct {
	Operation string
	Element   interface{}
}

// Error returns a textual representation of this WrongElementTypeError
func (e WrongElementTypeError) Error() string {
	return fmt.Sprintf("%s received an element of unexpected type %T", e.Operation, e.Element)
}

// InvalidArgumentError occurs when a transform is constructed with an argument
// that can never produce a valid pipeline, such as a non-positive limit.
type InvalidArgumentError struct{ Reason string }

// Error returns a textual representation of this InvalidArgumentError
func (e InvalidArgumentError) Error() string {
	return e.Reason
}

// NoMoreValuesError occurs when NextValue is called on an exhausted value
// iterator.
type NoMoreValuesError struct{}

// Error returns a textual representation of this NoMoreValuesError
func (e NoMoreValuesError) Error() string {
	return "No more values"
}

// EngineMismatchError occurs when datasets owned by different engines are
// combined in one operation.
type EngineMismatchError struct{}

// Error returns a textual representation of this EngineMismatchError
func (e EngineMismatchError) Error() string {
	return "Datasets belong to different engines"
}
