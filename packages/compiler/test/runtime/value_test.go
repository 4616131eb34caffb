package runtime_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/runtime"
)

func TestNumbers(t *testing.T) {
	t.Run("FloorMod", func(t *testing.T) {
		cases := []struct {
			a, b, want float64
		}{
			{7, 3, 1},
			{-7, 3, 2},
			{7, -3, -2},
			{-7, -3, -1},
			{6, 3, 0},
			{5.5, 2, 1.5},
		}
		for _, c := range cases {
			if got := runtime.FloorMod(c.a, c.b); got != c.want {
				t.Errorf("FloorMod(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		}
		if !math.IsNaN(runtime.FloorMod(1, 0)) {
			t.Error("FloorMod(1, 0) should be NaN")
		}
	})

	t.Run("ApproxEqual", func(t *testing.T) {
		pairs := [][2]float64{{1, 1}, {1, 1.0005}, {1, 1.002}, {-3, 3}, {0.1 + 0.2, 0.3}}
		want := []bool{true, true, false, false, true}
		for i, p := range pairs {
			eq := runtime.ApproxEqual(p[0], p[1])
			if eq != want[i] {
				t.Errorf("ApproxEqual(%v, %v) = %v", p[0], p[1], eq)
			}
		}
	})

	t.Run("NumberToString", func(t *testing.T) {
		cases := []struct {
			v    float64
			want string
		}{
			{0, "0"},
			{math.Copysign(0, -1), "0"},
			{42, "42"},
			{-3, "-3"},
			{1.5, "1.5"},
			{0.1, "0.1"},
			{1.0 / 3, "0.333333"},
			{math.NaN(), "0"},
			{math.Inf(1), "0"},
		}
		for _, c := range cases {
			if got := runtime.NumberToString(c.v); got != c.want {
				t.Errorf("NumberToString(%v) = %q, want %q", c.v, got, c.want)
			}
		}
	})
}

func TestStruct(t *testing.T) {
	s := runtime.NewStruct(map[string]runtime.Value{"a": 1.0, "b": "x"})
	s2 := s.With("a", 2.0)
	if s.Field("a") != 1.0 || s2.Field("a") != 2.0 {
		t.Errorf("With must not modify the original: %v %v", s.Field("a"), s2.Field("a"))
	}
	if diff := cmp.Diff([]string{"a", "b"}, s2.FieldNames()); diff != "" {
		t.Errorf("FieldNames (-want +got):\n%s", diff)
	}
	if runtime.Equal(s, s2) {
		t.Error("structs with different fields compare equal")
	}
	if !runtime.Equal(s, s2.With("a", 1.0)) {
		t.Error("structs with the same fields compare different")
	}
}

func TestEqual(t *testing.T) {
	m := runtime.NewVecModel(1.0)
	cases := []struct {
		name string
		a, b runtime.Value
		want bool
	}{
		{"numbers", 1.0, 1.0, true},
		{"strings", "a", "b", false},
		{"brushes", runtime.SolidBrush(runtime.Color{A: 255}), runtime.SolidBrush(runtime.Color{A: 255}), true},
		{"brush kinds", runtime.SolidBrush(runtime.Color{}), runtime.LinearGradient(0), false},
		{"same model", m, m, true},
		{"equal models", m, runtime.NewVecModel(1.0), false},
		{"layout caches", runtime.LayoutCache{1, 2}, runtime.LayoutCache{1, 2}, true},
		{"mixed", 1.0, "1", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := runtime.Equal(c.a, c.b); got != c.want {
				t.Errorf("Equal = %v, want %v", got, c.want)
			}
		})
	}
}

func TestColor(t *testing.T) {
	c := runtime.ColorFromArgbEncoded(0x80102030)
	if diff := cmp.Diff(runtime.Color{A: 0x80, R: 0x10, G: 0x20, B: 0x30}, c); diff != "" {
		t.Errorf("decode (-want +got):\n%s", diff)
	}
	if c.ArgbEncoded() != 0x80102030 {
		t.Errorf("ArgbEncoded = %x", c.ArgbEncoded())
	}
	if got := runtime.ColorFromRgba(300, -5, 10, 1); got != (runtime.Color{A: 255, R: 255, B: 10}) {
		t.Errorf("ColorFromRgba does not clamp: %+v", got)
	}
	if got := c.WithAlpha(1).A; got != 255 {
		t.Errorf("WithAlpha(1).A = %d", got)
	}
	if got := c.WithAlpha(1).Transparentize(0.5).A; got != 128 {
		t.Errorf("Transparentize(0.5).A = %d", got)
	}
	red := runtime.Color{A: 255, R: 255}
	blue := runtime.Color{A: 255, B: 255}
	if got := red.Mix(blue, 1); got != red {
		t.Errorf("Mix(1) = %+v, want the first color", got)
	}
	if got := red.Mix(blue, 0); got != blue {
		t.Errorf("Mix(0) = %+v, want the second color", got)
	}
	if red.Brighter(0.5) != red {
		t.Errorf("a fully saturated red cannot be brighter: %+v", red.Brighter(0.5))
	}
	if d := red.Darker(0.5); d.R >= red.R {
		t.Errorf("Darker(0.5) = %+v", d)
	}
	g := runtime.LinearGradient(90, runtime.GradientStop{Color: blue}, runtime.GradientStop{Color: red, Position: 1})
	if g.ColorValue() != blue {
		t.Errorf("ColorValue of a gradient is its first stop, got %+v", g.ColorValue())
	}
}
