package internal

import "reflect"

// IsNil reports whether a value held in an interface is nil,
// including typed nil pointers, maps, channels, functions, and
// slices assigned to interface values.
func IsNil(in any) bool {
	v := reflect.ValueOf(in)
	switch v.Kind() { //nolint:exhaustive
	case reflect.Invalid:
		return true
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
