package null

import (
	"fmt"
	"testing"
)

func TestMarkerIdentity(t *testing.T) {
	if !IsMarker(Marker) {
		t.Fatalf("Marker must recognize itself")
	}
	if Marker != Marker {
		t.Fatalf("Marker must equal itself")
	}
	if IsMarker("<null-marker>") || IsMarker(nil) || IsMarker(struct{}{}) {
		t.Fatalf("nothing but the marker may pass IsMarker")
	}
	if s := fmt.Sprint(Marker); s != "<null-marker>" {
		t.Fatalf("marker rendering: %q", s)
	}
}

func TestIsNil(t *testing.T) {
	var p *int
	var m map[string]int
	var sl []int
	var f func()
	var err error

	for i, v := range []any{nil, p, m, sl, f, err} {
		if !IsNil(v) {
			t.Fatalf("case %d: expected nil-ish", i)
		}
	}

	x := 1
	for i, v := range []any{0, "", x, &x, []int{}, map[string]int{}, struct{}{}} {
		if IsNil(v) {
			t.Fatalf("case %d: %#v is not nil-ish", i, v)
		}
	}
}
