package types

// Outcome is the tagged terminal result of a publication task. It carries
// either a value or an error message, never both.
type Outcome[T any] struct {
	ok    bool
	value T
	err   string
}

// Ok builds a successful outcome carrying value.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{ok: true, value: value}
}

// Fail builds a failed outcome carrying an error description. An empty
// description is replaced with a generic one so a failure can never be
// constructed without an error.
func Fail[T any](errMsg string) Outcome[T] {
	if errMsg == "" {
		errMsg = "unknown error"
	}
	return Outcome[T]{err: errMsg}
}

// Success reports whether the outcome is a success.
func (o Outcome[T]) Success() bool {
	return o.ok
}

// Value returns the carried value and whether the outcome was a success.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.ok
}

// ErrorMessage returns the error description for a failed outcome, or ""
// for a success.
func (o Outcome[T]) ErrorMessage() string {
	return o.err
}
