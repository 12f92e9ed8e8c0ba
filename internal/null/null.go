// Package null holds the private marker representing an intentionally
// cached nil value. The store's "absent" signal stays reserved for "no
// entry exists"; an entry that holds the marker means "entry exists and
// holds nil". The package lives under internal/ so the marker never leaks
// into the public API.
package null

import "reflect"

type markerType struct{}

// String gives the marker a stable, non-empty representation for logs.
func (markerType) String() string { return "<null-marker>" }

// Marker is the process-wide cached-nil sentinel. It equals only itself.
var Marker any = markerType{}

// IsMarker reports whether v is the cached-nil sentinel.
func IsMarker(v any) bool {
	_, ok := v.(markerType)
	return ok
}

// IsNil reports whether v is nil, including typed nils boxed in an
// interface (pointer, map, slice, chan, func, interface).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
