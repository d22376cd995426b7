package common

import (
	"fmt"
)

// Result holds either a value or the error that prevented producing one.
type Result[T any] struct {
	Value T
	Err   error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Ok reports whether the result carries a value.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Unwrap returns the value and error as a pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// Attempt runs primary and, if it fails or panics, returns secondary's value.
// The returned error reports why primary was abandoned and is nil when it succeeded.
func Attempt[T any](primary func() (T, error), secondary func() T) (value T, cause error) {
	r := capture(primary)
	if r.Ok() {
		return r.Value, nil
	}
	return secondary(), r.Err
}

func capture[T any](fn func() (T, error)) (r Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			r = Fail[T](fmt.Errorf("panic: %v", p))
		}
	}()
	v, err := fn()
	if err != nil {
		return Fail[T](err)
	}
	return OK(v)
}
