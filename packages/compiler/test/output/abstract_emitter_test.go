package output_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/output"
)

func TestAbstractEmitter(t *testing.T) {
	t.Run("EscapeString", func(t *testing.T) {
		t.Run("should escape double quotes", func(t *testing.T) {
			result := output.EscapeString(`say "hi"`)
			expected := `say \"hi\"`
			if result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})

		t.Run("should escape backslash", func(t *testing.T) {
			result := output.EscapeString("\\")
			expected := "\\\\"
			if result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})

		t.Run("should escape newlines", func(t *testing.T) {
			result := output.EscapeString("a\nb\r")
			expected := "a\\nb\\r"
			if result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})

		t.Run("should keep utf-8", func(t *testing.T) {
			result := output.EscapeString("héllo ✓")
			expected := "héllo ✓"
			if result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})
	})

	t.Run("EmitterVisitorContext", func(t *testing.T) {
		t.Run("should indent nested lines", func(t *testing.T) {
			ctx := output.CreateRootEmitterVisitorContext()
			ctx.Println("struct Foo {")
			ctx.IncIndent()
			ctx.Print("int ", false)
			ctx.Println("x;")
			ctx.DecIndent()
			ctx.Println("};")
			expected := "struct Foo {\n    int x;\n};\n"
			if result := ctx.ToSource(); result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})

		t.Run("should print multi-line fragments at the current indentation", func(t *testing.T) {
			ctx := output.NewEmitterVisitorContext(1)
			ctx.PrintLines("a;\nb;")
			expected := "    a;\n    b;\n"
			if result := ctx.ToSource(); result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})
	})
}

func TestRemoveParentheses(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"(foo(bar))", "foo(bar)"},
		{"(foo).bar", "(foo).bar"},
		{"(foo(bar))", "foo(bar)"},
		{"(foo)(bar)", "(foo)(bar)"},
		{"(foo).get()", "(foo).get()"},
		{"((foo).get())", "(foo).get()"},
		{"((foo))", "foo"},
		{"()())(", "()())("},
		{"foo", "foo"},
		{"(a + (b))", "a + (b)"},
		{`((a == "(") && (")" == b))`, `(a == "(") && (")" == b)`},
		{`((self->a.get() == slint::SharedString(u8"(")) && (slint::SharedString(u8")") == self->b.get()))`,
			`(self->a.get() == slint::SharedString(u8"(")) && (slint::SharedString(u8")") == self->b.get())`},
		{`("\")(" + x)`, `"\")(" + x`},
		{`('(' + ")")`, `'(' + ")"`},
		{`(a + "(")`, `a + "("`},
		{`("unterminated)`, `("unterminated)`},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			result := output.RemoveParentheses(c.input)
			if result != c.expected {
				t.Errorf("Expected %q, got %q", c.expected, result)
			}
			if again := output.RemoveParentheses(result); again != result {
				t.Errorf("Expected idempotence, %q became %q", result, again)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{42, "42"},
		{-3.5, "-3.5"},
		{0.1, "0.1"},
		{1e9, "1000000000"},
		{2e10, "2e+10"},
		{-2e10, "-2e+10"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
		{math.Inf(-1), "0"},
	}
	for _, c := range cases {
		if result := output.FormatNumber(c.input); result != c.expected {
			t.Errorf("FormatNumber(%v): Expected %q, got %q", c.input, c.expected, result)
		}
	}
}

func TestSplitRoundRobin(t *testing.T) {
	t.Run("should balance buckets", func(t *testing.T) {
		got := output.SplitRoundRobin([]int{0, 1, 2, 3, 4, 5, 6}, 3)
		expected := [][]int{{0, 3, 6}, {1, 4}, {2, 5}}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("mismatch (-expected +got):\n%s", diff)
		}
	})

	t.Run("should keep every bucket when there are fewer items", func(t *testing.T) {
		got := output.SplitRoundRobin([]string{"a"}, 3)
		if len(got) != 3 || len(got[0]) != 1 || got[1] != nil || got[2] != nil {
			t.Errorf("unexpected buckets %v", got)
		}
	})
}
