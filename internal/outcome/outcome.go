// Package outcome is the asynchronous result convention used across the
// sync engine: a single value type carrying either a result or an error,
// delivered through an optional callback instead of a two-method handler.
package outcome

// Result carries either a value or an error, never both meaningfully.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Failed reports whether the result carries an error.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Callback receives an asynchronous result. A nil Callback is valid and
// means the caller does not care about the outcome.
type Callback[T any] func(Result[T])

// Deliver invokes the callback if one was supplied.
func (cb Callback[T]) Deliver(r Result[T]) {
	if cb != nil {
		cb(r)
	}
}

// Done is the result type of operations that produce no value.
type Done = Result[struct{}]

// Complete builds a Done from an error, nil meaning success.
func Complete(err error) Done {
	if err != nil {
		return Fail[struct{}](err)
	}
	return Ok(struct{}{})
}
