// Package logic provides the typed payloads returned by the analysis backend
// and the result type that carries them to the presentation layer.
package logic

// Result is either a successful payload or a single failure message.
// The zero value is a failure with an empty message.
type Result[T any] struct {
	value   T
	message string
	ok      bool
}

// Ok wraps a successful payload.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failed wraps a user-facing failure message.
func Failed[T any](message string) Result[T] {
	return Result[T]{message: message}
}

// IsOk reports whether the result carries a payload.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the payload and whether it is present.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Message returns the failure message, empty on success.
func (r Result[T]) Message() string {
	if r.ok {
		return ""
	}
	return r.message
}
