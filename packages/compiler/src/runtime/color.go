package runtime

import "math"

// Color is an 8-bit per channel ARGB color
type Color struct {
	A, R, G, B uint8
}

// Transparent is the default color
var Transparent = Color{}

// ColorFromArgbEncoded decodes 0xAARRGGBB
func ColorFromArgbEncoded(v uint32) Color {
	return Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// ColorFromRgba clamps the channels to [0, 255]. Alpha is in [0, 1].
func ColorFromRgba(r, g, b, a float64) Color {
	return Color{A: clampChannel(a * 255), R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// ArgbEncoded is the inverse of ColorFromArgbEncoded
func (c Color) ArgbEncoded() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

type hsva struct {
	h, s, v, a float64
}

func (c Color) toHsva() hsva {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	chroma := max - min
	var h float64
	switch {
	case chroma == 0:
		h = 0
	case max == r:
		h = 60 * FloorMod((g-b)/chroma, 6)
	case max == g:
		h = 60 * ((b-r)/chroma + 2)
	default:
		h = 60 * ((r-g)/chroma + 4)
	}
	s := 0.0
	if max != 0 {
		s = chroma / max
	}
	return hsva{h: h, s: s, v: max, a: float64(c.A) / 255}
}

func (x hsva) toColor() Color {
	v := math.Min(math.Max(x.v, 0), 1)
	s := math.Min(math.Max(x.s, 0), 1)
	chroma := v * s
	hp := FloorMod(x.h, 360) / 60
	xc := chroma * (1 - math.Abs(FloorMod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = chroma, xc, 0
	case hp < 2:
		r, g, b = xc, chroma, 0
	case hp < 3:
		r, g, b = 0, chroma, xc
	case hp < 4:
		r, g, b = 0, xc, chroma
	case hp < 5:
		r, g, b = xc, 0, chroma
	default:
		r, g, b = chroma, 0, xc
	}
	m := v - chroma
	return ColorFromRgba((r+m)*255, (g+m)*255, (b+m)*255, x.a)
}

// Brighter increases the value in the HSV space by factor
func (c Color) Brighter(factor float64) Color {
	x := c.toHsva()
	x.v *= 1 + factor
	return x.toColor()
}

// Darker decreases the value in the HSV space by factor
func (c Color) Darker(factor float64) Color {
	x := c.toHsva()
	x.v /= 1 + factor
	return x.toColor()
}

// Transparentize reduces the opacity by factor, 1 makes the color fully transparent
func (c Color) Transparentize(factor float64) Color {
	out := c
	out.A = clampChannel(float64(c.A) * (1 - factor))
	return out
}

// WithAlpha replaces the opacity, alpha is in [0, 1]
func (c Color) WithAlpha(alpha float64) Color {
	out := c
	out.A = clampChannel(alpha * 255)
	return out
}

// Mix blends c with other. A factor of 1 gives c, 0 gives other. The weight accounts for
// the opacity of both colors.
func (c Color) Mix(other Color, factor float64) Color {
	factor = math.Min(math.Max(factor, 0), 1)
	w := factor*2 - 1
	a := float64(c.A)/255 - float64(other.A)/255
	var w1 float64
	if w*a == -1 {
		w1 = w
	} else {
		w1 = (w + a) / (1 + w*a)
	}
	w1 = (w1 + 1) / 2
	w2 := 1 - w1
	mix := func(x, y uint8) float64 { return float64(x)*w1 + float64(y)*w2 }
	alpha := float64(c.A)/255*factor + float64(other.A)/255*(1-factor)
	return ColorFromRgba(mix(c.R, other.R), mix(c.G, other.G), mix(c.B, other.B), alpha)
}

// BrushKind distinguishes solid colors from gradients
type BrushKind int

const (
	BrushSolid BrushKind = iota
	BrushLinearGradient
	BrushRadialGradient
)

// GradientStop is a color at a position in [0, 1]
type GradientStop struct {
	Color    Color
	Position float64
}

// Brush is a solid color or a gradient
type Brush struct {
	Kind  BrushKind
	Color Color
	// Angle of a linear gradient, in degrees
	Angle float64
	Stops []GradientStop
}

// SolidBrush creates a brush painting one color
func SolidBrush(c Color) Brush {
	return Brush{Kind: BrushSolid, Color: c}
}

// LinearGradient creates a linear gradient brush
func LinearGradient(angle float64, stops ...GradientStop) Brush {
	return Brush{Kind: BrushLinearGradient, Angle: angle, Stops: stops}
}

// RadialGradient creates a circular gradient brush
func RadialGradient(stops ...GradientStop) Brush {
	return Brush{Kind: BrushRadialGradient, Stops: stops}
}

// ColorValue is the color of a solid brush, or the first stop of a gradient
func (b Brush) ColorValue() Color {
	if b.Kind == BrushSolid || len(b.Stops) == 0 {
		return b.Color
	}
	return b.Stops[0].Color
}

// Equal compares two brushes
func (b Brush) Equal(o Brush) bool {
	if b.Kind != o.Kind || b.Color != o.Color || b.Angle != o.Angle || len(b.Stops) != len(o.Stops) {
		return false
	}
	for i := range b.Stops {
		if b.Stops[i] != o.Stops[i] {
			return false
		}
	}
	return true
}

// Image is an image reference. Only the size is known to the runtime.
type Image struct {
	Path       string
	ResourceID int
	Extension  string
	Embedded   bool
	Width      int
	Height     int
}

// Equal compares two images by source
func (i Image) Equal(o Image) bool {
	return i == o
}
