package arena_test

import (
	"testing"

	"slintc-go/packages/compiler/src/runtime/arena"
)

func TestArena(t *testing.T) {
	var a arena.Arena[string]

	t.Run("insert and get", func(t *testing.T) {
		h := a.Insert("one")
		if v, ok := a.Get(h); !ok || v != "one" {
			t.Errorf("Get = %q, %v", v, ok)
		}
		if a.Len() != 1 {
			t.Errorf("Len = %d", a.Len())
		}
		a.Remove(h)
	})

	t.Run("expired handles", func(t *testing.T) {
		old := a.Insert("old")
		if !a.Remove(old) {
			t.Fatal("Remove of a live handle failed")
		}
		if a.Remove(old) {
			t.Error("second Remove succeeded")
		}
		reused := a.Insert("new")
		if _, ok := a.Get(old); ok {
			t.Error("an expired handle resolves to the value reusing its slot")
		}
		if v, _ := a.Get(reused); v != "new" {
			t.Errorf("Get(reused) = %q", v)
		}
		a.Remove(reused)
	})

	t.Run("zero handle", func(t *testing.T) {
		var h arena.Handle
		if !h.IsZero() {
			t.Error("IsZero is false for the zero handle")
		}
		if _, ok := a.Get(h); ok {
			t.Error("the zero handle resolves")
		}
		if a.Insert("x").IsZero() {
			t.Error("Insert returned the zero handle")
		}
	})
}
