// Package check provides non-fatal variants of the assert package's
// helpers: failures are reported but the test continues executing.
package check

import (
	"errors"
	"testing"

	"github.com/rivulet/rivulet/internal"
)

// True causes a test to fail if the condition is false.
func True(t testing.TB, cond bool) {
	t.Helper()
	if !cond {
		t.Error("assertion failure")
	}
}

// Equal causes a test to fail if the two (comparable) values are not
// equal.
func Equal[T comparable](t testing.TB, valOne, valTwo T) {
	t.Helper()
	if valOne != valTwo {
		t.Errorf("values unequal: <%v> != <%v>", valOne, valTwo)
	}
}

// NotEqual causes a test to fail if the two (comparable) values are
// equal.
func NotEqual[T comparable](t testing.TB, valOne, valTwo T) {
	t.Helper()
	if valOne == valTwo {
		t.Errorf("values equal: <%v>", valOne)
	}
}

// Zero fails a test if the value is not the zero value for its type.
func Zero[T comparable](t testing.TB, val T) {
	t.Helper()
	var zero T
	if val != zero {
		t.Errorf("value <%v> was not the zero value", val)
	}
}

// Nil causes a test to fail if the value is not nil.
func Nil(t testing.TB, val any) {
	t.Helper()
	if !internal.IsNil(val) {
		t.Errorf("value (type=%T), %v was expected to be nil", val, val)
	}
}

// NotNil causes a test to fail if the value is nil.
func NotNil(t testing.TB, val any) {
	t.Helper()
	if internal.IsNil(val) {
		t.Errorf("value (type=%T), was nil", val)
	}
}

// Error fails a test when the error is nil.
func Error(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Error("expected an error")
	}
}

// NotError fails a test when the error is non-nil.
func NotError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ErrorIs fails a test if the error does not match the target, using
// errors.Is.
func ErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("error <%v> is not <%v>", err, target)
	}
}

// EqualItems fails a test if the two slices are not of equal length
// with equal values in the same order.
func EqualItems[T comparable](t testing.TB, valOne, valTwo []T) {
	t.Helper()
	if len(valOne) != len(valTwo) {
		t.Errorf("slice lengths unequal: %d != %d (%v, %v)", len(valOne), len(valTwo), valOne, valTwo)
		return
	}
	for idx := range valOne {
		if valOne[idx] != valTwo[idx] {
			t.Errorf("items at index %d unequal: <%v> != <%v>", idx, valOne[idx], valTwo[idx])
		}
	}
}
