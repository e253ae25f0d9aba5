package ers

import "strings"

// Stack is the error type produced when more than one error is
// aggregated. It supports errors.Is and errors.As over all of its
// constituent errors via the multi-error Unwrap form.
type Stack struct {
	errs []error
}

// Join aggregates the non-nil errors into a single error value:
// nil when there are none, the error itself when there is exactly
// one, and a *Stack otherwise. Nested Stacks and other multi-error
// wrappers are flattened.
func Join(errs ...error) error {
	s := &Stack{}
	for _, err := range errs {
		s.Push(err)
	}

	switch len(s.errs) {
	case 0:
		return nil
	case 1:
		return s.errs[0]
	default:
		return s
	}
}

// Push adds an error to the stack, flattening any aggregate error
// types. Nil errors are dropped.
func (s *Stack) Push(err error) {
	switch werr := err.(type) {
	case nil:
	case *Stack:
		s.errs = append(s.errs, werr.errs...)
	case interface{ Unwrap() []error }:
		for _, e := range werr.Unwrap() {
			s.Push(e)
		}
	default:
		s.errs = append(s.errs, err)
	}
}

// Len reports the number of constituent errors.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.errs)
}

// Ok returns true when the stack holds no errors.
func (s *Stack) Ok() bool { return s.Len() == 0 }

// Unwrap exposes the constituent errors for errors.Is/errors.As.
func (s *Stack) Unwrap() []error { return s.errs }

// Errors returns a copy of the constituent errors, newest last.
func (s *Stack) Errors() []error {
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}

func (s *Stack) Error() string {
	if s.Len() == 0 {
		return "<nil>"
	}

	parts := make([]string, len(s.errs))
	for idx, err := range s.errs {
		parts[idx] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwind returns the full flattened list of component errors for an
// arbitrary error value, in the same way Join flattens its inputs.
func Unwind(err error) []error {
	switch werr := err.(type) {
	case nil:
		return nil
	case *Stack:
		return werr.Errors()
	case interface{ Unwrap() []error }:
		var out []error
		for _, e := range werr.Unwrap() {
			out = append(out, Unwind(e)...)
		}
		return out
	case interface{ Unwrap() error }:
		return append([]error{err}, Unwind(werr.Unwrap())...)
	default:
		return []error{err}
	}
}
