package generator_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

type nesting struct {
	unit                          *llr.CompilationUnit
	grandParent, parent, child    *llr.SubComponent
	grandCtx, parentCtx, childCtx *llr.EvaluationContext[string]
}

// grand-parent -> repeater 0 -> parent -> repeater 0 -> child
func threeLevels() nesting {
	inner := &llr.SubComponent{
		Name:       "Inner",
		Properties: []llr.Property{{Name: "value", Type: langtype.Float32, UseCount: 1}},
	}
	child := &llr.SubComponent{Name: "Child"}
	parent := &llr.SubComponent{
		Name:     "Parent",
		Repeated: []llr.RepeatedElement{{SubTree: llr.ItemTree{Root: child}}},
	}
	grandParent := &llr.SubComponent{
		Name: "GrandParent",
		Properties: []llr.Property{
			{Name: "unused", Type: langtype.Int32},
			{Name: "total-width", Type: langtype.LogicalLength, UseCount: 2},
		},
		SubComponents: []llr.SubComponentInstance{{Type: inner, Name: "inner-0"}},
		Repeated:      []llr.RepeatedElement{{SubTree: llr.ItemTree{Root: parent}}},
	}
	unit := &llr.CompilationUnit{
		SubComponents: []*llr.SubComponent{inner, child, parent, grandParent},
		Globals: []*llr.GlobalComponent{{
			Name:       "Palette",
			Properties: []llr.Property{{Name: "accent", Type: langtype.Color}},
		}},
	}
	n := nesting{unit: unit, grandParent: grandParent, parent: parent, child: child}
	n.grandCtx = llr.NewSubComponentContext(unit, grandParent, "grand", nil)
	n.parentCtx = llr.NewSubComponentContext(unit, parent, "parent", llr.NewParentCtx(n.grandCtx, 0))
	n.childCtx = llr.NewSubComponentContext(unit, child, "child", llr.NewParentCtx(n.parentCtx, 0))
	return n
}

func TestResolveMember(t *testing.T) {
	n := threeLevels()

	t.Run("InParent level 2 walks exactly two parent hops", func(t *testing.T) {
		ref := &llr.InParentRef{Level: 2, Inner: &llr.LocalRef{PropertyIndex: 1}}
		access, owner := generator.ResolveMember(ref, n.childCtx)
		if access.ParentHops != 2 {
			t.Errorf("Expected 2 parent hops, got %d", access.ParentHops)
		}
		if owner != n.grandCtx {
			t.Errorf("Expected the grand parent context, got %q", owner.GeneratorState)
		}
		if access.Name != "total-width" || access.SubComponent != n.grandParent {
			t.Errorf("Expected grand parent property total-width, got %q in %s", access.Name, access.SubComponent.Name)
		}
	})

	t.Run("inner path is relative to the ancestor", func(t *testing.T) {
		ref := &llr.InParentRef{Level: 2, Inner: &llr.LocalRef{SubComponentPath: []int{0}, PropertyIndex: 0}}
		access, _ := generator.ResolveMember(ref, n.childCtx)
		expected := generator.MemberAccess{
			Kind:         generator.AccessProperty,
			ParentHops:   2,
			Path:         []string{"inner-0"},
			Name:         "value",
			SubComponent: n.grandParent.SubComponents[0].Type,
			Property:     &n.grandParent.SubComponents[0].Type.Properties[0],
		}
		if diff := cmp.Diff(expected, access); diff != "" {
			t.Errorf("mismatch (-expected +got):\n%s", diff)
		}
	})

	t.Run("local references do not hop", func(t *testing.T) {
		access, owner := generator.ResolveMember(&llr.LocalRef{PropertyIndex: 1}, n.grandCtx)
		if access.ParentHops != 0 || owner != n.grandCtx {
			t.Errorf("Expected no hops, got %d", access.ParentHops)
		}
	})

	t.Run("globals ignore the parent chain", func(t *testing.T) {
		access, _ := generator.ResolveMember(&llr.GlobalRef{GlobalIndex: 0, PropertyIndex: 0}, n.childCtx)
		if access.Kind != generator.AccessGlobalProperty || access.Global.Name != "Palette" || access.ParentHops != 0 {
			t.Errorf("unexpected access %+v", access)
		}
	})

	t.Run("out of range indices panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Errorf("Expected a panic")
			}
		}()
		generator.ResolveMember(&llr.LocalRef{PropertyIndex: 7}, n.grandCtx)
	})

	t.Run("too many hops panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Errorf("Expected a panic")
			}
		}()
		generator.ResolveMember(&llr.InParentRef{Level: 3, Inner: &llr.LocalRef{}}, n.childCtx)
	})
}

func TestMangleIdent(t *testing.T) {
	reserved := generator.ReservedSet("class", "new", "delete")

	t.Run("should map hyphens and reserved words", func(t *testing.T) {
		cases := map[string]string{
			"foo-bar":  "foo_bar",
			"class":    "class_",
			"class_":   "class__",
			"new-item": "new_item",
			"delete":   "delete_",
			"x":        "x",
		}
		for input, expected := range cases {
			if result := generator.MangleIdent(input, reserved); result != expected {
				t.Errorf("MangleIdent(%q): Expected %q, got %q", input, expected, result)
			}
		}
	})

	t.Run("should be injective and stable", func(t *testing.T) {
		inputs := []string{"class", "class_", "class__", "klass", "foo_", "foo", "new", "new_", "a-b", "a-b_"}
		seen := map[string]string{}
		for _, in := range inputs {
			out := generator.MangleIdent(in, reserved)
			if again := generator.MangleIdent(in, reserved); again != out {
				t.Errorf("unstable mapping for %q: %q then %q", in, out, again)
			}
			if prev, ok := seen[out]; ok {
				t.Errorf("%q and %q both map to %q", prev, in, out)
			}
			seen[out] = in
		}
	})
}

type fakeTarget struct{ called bool }

func (f *fakeTarget) Name() string { return "fake" }

func (f *fakeTarget) Generate(*llr.CompilationUnit, *config.CompilerConfiguration, string) ([]generator.OutputFile, error) {
	f.called = true
	return []generator.OutputFile{{Name: "out.txt"}}, nil
}

type panickingTarget struct{}

func (panickingTarget) Name() string { return "broken" }

func (panickingTarget) Generate(*llr.CompilationUnit, *config.CompilerConfiguration, string) ([]generator.OutputFile, error) {
	panic("internal error: boom")
}

type fakeLiveReload struct{ target string }

func (f *fakeLiveReload) GenerateLiveReload(target string, _ *llr.CompilationUnit, _ *config.CompilerConfiguration, _ string) ([]generator.OutputFile, error) {
	f.target = target
	return []generator.OutputFile{{Name: "live.txt"}}, nil
}

func TestGenerate(t *testing.T) {
	t.Run("should delegate to live reload when requested", func(t *testing.T) {
		target := &fakeTarget{}
		live := &fakeLiveReload{}
		cfg := config.NewCompilerConfiguration(config.WithLiveReload(true))
		files, err := generator.Generate(target, &llr.CompilationUnit{}, cfg, generator.Options{LiveReload: live})
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if target.called || live.target != "fake" || files[0].Name != "live.txt" {
			t.Errorf("Expected the live reload generator to run, got %+v", files)
		}
	})

	t.Run("should fail without live reload generator", func(t *testing.T) {
		cfg := config.NewCompilerConfiguration(config.WithLiveReload(true))
		_, err := generator.Generate(&fakeTarget{}, &llr.CompilationUnit{}, cfg, generator.Options{})
		if !errors.Is(err, generator.ErrLiveReloadUnavailable) {
			t.Errorf("Expected ErrLiveReloadUnavailable, got %v", err)
		}
	})

	t.Run("should report internal errors", func(t *testing.T) {
		_, err := generator.Generate(panickingTarget{}, &llr.CompilationUnit{}, nil, generator.Options{})
		if err == nil {
			t.Errorf("Expected an error")
		}
	})
}
