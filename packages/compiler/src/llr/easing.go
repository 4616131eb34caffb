package llr

import "fmt"

// EasingKind identifies an easing curve. Every curve has its own tag.
type EasingKind int

const (
	EasingLinear EasingKind = iota
	EasingCubicBezier
	EasingEaseInElastic
	EasingEaseOutElastic
	EasingEaseInOutElastic
	EasingEaseInBounce
	EasingEaseOutBounce
	EasingEaseInOutBounce
)

var easingNames = map[EasingKind]string{
	EasingLinear:           "linear",
	EasingCubicBezier:      "cubic-bezier",
	EasingEaseInElastic:    "ease-in-elastic",
	EasingEaseOutElastic:   "ease-out-elastic",
	EasingEaseInOutElastic: "ease-in-out-elastic",
	EasingEaseInBounce:     "ease-in-bounce",
	EasingEaseOutBounce:    "ease-out-bounce",
	EasingEaseInOutBounce:  "ease-in-out-bounce",
}

func (k EasingKind) String() string {
	if n, ok := easingNames[k]; ok {
		return n
	}
	return fmt.Sprintf("EasingKind(%d)", int(k))
}

// EasingKindFromName is the inverse of EasingKind.String
func EasingKindFromName(name string) (EasingKind, bool) {
	for k, n := range easingNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// EasingCurve is an easing curve. The control points are only meaningful for EasingCubicBezier.
type EasingCurve struct {
	Kind   EasingKind
	X1, Y1 float64
	X2, Y2 float64
}
