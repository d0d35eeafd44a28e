package riffle

import (
	"golang.org/x/exp/constraints"
)

// An Ordering reports the relative order of two elements, returning a negative
// number when a orders before b, zero when they order equally, and a positive
// number when a orders after b. It must describe a total order. Operations
// which rank elements take an Ordering explicitly, and reject a nil Ordering
// with an errors.UnsupportedTypeError before any work is scheduled.
type Ordering[T any] func(a T, b T) int

// Natural produces the ascending Ordering of any primitive ordered type
func Natural[T constraints.Ordered]() Ordering[T] {
	return func(a T, b T) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// Reverse inverts an Ordering. Reversing a nil Ordering yields nil.
func Reverse[T any](ord Ordering[T]) Ordering[T] {
	if ord == nil {
		return nil
	}
	return func(a T, b T) int { return -ord(a, b) }
}
