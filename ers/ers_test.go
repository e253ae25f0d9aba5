package ers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError(t *testing.T) {
	t.Run("ConstantsAreErrors", func(t *testing.T) {
		const err Error = "foo"
		if err.Error() != "foo" {
			t.Fatal(err.Error())
		}
		if !errors.Is(error(err), Error("foo")) {
			t.Fatal("sentinel comparison failed")
		}
	})
	t.Run("WrappedIs", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", ErrCurrentOpSkip)
		if !errors.Is(wrapped, ErrCurrentOpSkip) {
			t.Fatal("wrapped sentinel not matched")
		}
	})
	t.Run("Classifiers", func(t *testing.T) {
		if !IsTerminating(io.EOF) {
			t.Fatal("io.EOF should be terminating")
		}
		if !IsTerminating(ErrCurrentOpAbort) {
			t.Fatal("abort should be terminating")
		}
		if IsTerminating(errors.New("other")) {
			t.Fatal("arbitrary errors are not terminating")
		}
		if !IsExpiredContext(context.Canceled) || !IsExpiredContext(context.DeadlineExceeded) {
			t.Fatal("context errors should report expired")
		}
	})
}

func TestJoin(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if Join() != nil || Join(nil, nil) != nil {
			t.Fatal("joining nothing should be nil")
		}
	})
	t.Run("Single", func(t *testing.T) {
		err := errors.New("one")
		if Join(err, nil) != err {
			t.Fatal("single errors pass through")
		}
	})
	t.Run("Multiple", func(t *testing.T) {
		first := errors.New("first")
		second := errors.New("second")
		err := Join(first, second)

		if !errors.Is(err, first) || !errors.Is(err, second) {
			t.Fatal("constituents should match")
		}
		if err.Error() != "first; second" {
			t.Fatal(err.Error())
		}
	})
	t.Run("FlattensNesting", func(t *testing.T) {
		inner := Join(errors.New("a"), errors.New("b"))
		err := Join(inner, errors.New("c"))

		stack := &Stack{}
		if !errors.As(err, &stack) {
			t.Fatal("expected a stack")
		}
		if stack.Len() != 3 {
			t.Fatal("expected flattening, got", stack.Len())
		}
	})
	t.Run("Unwind", func(t *testing.T) {
		errs := Unwind(Join(errors.New("a"), errors.New("b"), errors.New("c")))
		if len(errs) != 3 {
			t.Fatal(len(errs))
		}
	})
}

func TestParsePanic(t *testing.T) {
	t.Run("NilIsNil", func(t *testing.T) {
		if ParsePanic(nil) != nil {
			t.Fatal("no panic, no error")
		}
	})
	t.Run("StringsAndErrors", func(t *testing.T) {
		for _, val := range []any{"boom", errors.New("boom"), 42} {
			err := ParsePanic(val)
			if !errors.Is(err, ErrRecoveredPanic) {
				t.Fatalf("%v should wrap the panic sentinel", err)
			}
		}
	})
	t.Run("WithRecover", func(t *testing.T) {
		err := WithRecover(func() error { panic("eep") })
		if !errors.Is(err, ErrRecoveredPanic) {
			t.Fatal(err)
		}

		if err := WithRecover(func() error { return nil }); err != nil {
			t.Fatal(err)
		}
	})
}
