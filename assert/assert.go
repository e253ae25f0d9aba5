// Package assert provides a minimal generics-based assertion
// framework. All assertions are fatal and abort the test at the
// failure line; the companion check package provides non-fatal
// variants of the same helpers.
package assert

import (
	"errors"
	"testing"

	"github.com/rivulet/rivulet/internal"
)

// True causes a test to fail if the condition is false.
func True(t testing.TB, cond bool) {
	t.Helper()
	if !cond {
		t.Fatal("assertion failure")
	}
}

// Equal causes a test to fail if the two (comparable) values are not
// equal.
func Equal[T comparable](t testing.TB, valOne, valTwo T) {
	t.Helper()
	if valOne != valTwo {
		t.Fatalf("unequal: <%v> != <%v>", valOne, valTwo)
	}
}

// NotEqual causes a test to fail if the two (comparable) values are
// equal.
func NotEqual[T comparable](t testing.TB, valOne, valTwo T) {
	t.Helper()
	if valOne == valTwo {
		t.Fatalf("equal: <%v>", valOne)
	}
}

// Zero fails a test if the value is not the zero value for its type.
func Zero[T comparable](t testing.TB, val T) {
	t.Helper()
	var zero T
	if val != zero {
		t.Fatalf("value <%v> was not the zero value", val)
	}
}

// Nil causes a test to fail if the value is not nil. Uses reflection
// and correctly handles typed nil values assigned to interfaces.
func Nil(t testing.TB, val any) {
	t.Helper()
	if !internal.IsNil(val) {
		t.Fatalf("value (type=%T), %v was expected to be nil", val, val)
	}
}

// NotNil causes a test to fail if the value is nil.
func NotNil(t testing.TB, val any) {
	t.Helper()
	if internal.IsNil(val) {
		t.Fatalf("value (type=%T), was nil", val)
	}
}

// Error fails a test when the error is nil.
func Error(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
}

// NotError fails a test when the error is non-nil.
func NotError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ErrorIs fails a test if the error does not match the target, using
// errors.Is.
func ErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error <%v> is not <%v>", err, target)
	}
}

// NotErrorIs fails a test if the error matches the target, using
// errors.Is.
func NotErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if errors.Is(err, target) {
		t.Fatalf("error <%v> is <%v>", err, target)
	}
}

// EqualItems fails a test if the two slices are not of equal length
// with equal values in the same order.
func EqualItems[T comparable](t testing.TB, valOne, valTwo []T) {
	t.Helper()
	if len(valOne) != len(valTwo) {
		t.Fatalf("slice lengths unequal: %d != %d (%v, %v)", len(valOne), len(valTwo), valOne, valTwo)
	}
	for idx := range valOne {
		if valOne[idx] != valTwo[idx] {
			t.Fatalf("items at index %d unequal: <%v> != <%v>", idx, valOne[idx], valTwo[idx])
		}
	}
}

// Panic fails a test if the function does not panic.
func Panic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}

// NotPanic fails a test if the function panics.
func NotPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}
