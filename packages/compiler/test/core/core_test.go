package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/core"
)

func TestParseTarget(t *testing.T) {
	for _, name := range []string{"cpp", "c++", "js", "javascript"} {
		target, ok := core.ParseTarget(name)
		if !ok {
			t.Fatalf("%s not recognized", name)
		}
		if _, again := core.ParseTarget(target.String()); !again {
			t.Errorf("%s does not round trip", target)
		}
	}
	if _, ok := core.ParseTarget("rust"); ok {
		t.Error("rust should not be a target")
	}
}

func TestVersion(t *testing.T) {
	v, err := core.NewVersion("1.9.2-beta")
	if err != nil {
		t.Fatal(err)
	}
	want := &core.Version{Full: "1.9.2-beta", Major: 1, Minor: 9, Patch: 2}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("version (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"1.9", "1.x.0", ""} {
		if _, err := core.NewVersion(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
	if core.CompilerVersion.Major < 1 {
		t.Errorf("compiler version %s", core.CompilerVersion)
	}
}
