package test

import (
	"testing"
	"time"

	"github.com/tigview/tigview/internal/ui/view"
)

// Load opens v and drains it until the load ends.
func Load(t *testing.T, v *view.View, flags view.OpenFlags) {
	t.Helper()
	if _, err := v.Open(flags); err != nil {
		t.Fatalf("open %s: %v", v.Type, err)
	}
	Drain(t, v)
}

// Drain feeds v until it stops loading.
func Drain(t *testing.T, v *view.View) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for v.Loading() {
		if time.Now().After(deadline) {
			t.Fatalf("%s did not finish loading", v.Type)
		}
		v.Drain(0)
	}
}
