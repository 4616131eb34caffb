package util_test

import (
	"strings"
	"testing"

	"slintc-go/packages/compiler/src/util"
)

func TestDashCaseToPascalCase(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"button":      "Button",
		"main-window": "MainWindow",
		"list_view-2": "ListView2",
	}
	for in, want := range tests {
		if got := util.DashCaseToPascalCase(in); got != want {
			t.Errorf("DashCaseToPascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInternalError(t *testing.T) {
	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "internal error: ") || !strings.Contains(msg, "index 3") {
			t.Errorf("unexpected panic value %v", r)
		}
	}()
	util.InternalError("index %d out of range", 3)
}
