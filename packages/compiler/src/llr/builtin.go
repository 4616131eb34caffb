package llr

import (
	"fmt"

	"slintc-go/packages/compiler/src/langtype"
)

// BuiltinKind identifies a builtin function
type BuiltinKind int

const (
	BuiltinGetWindowScaleFactor BuiltinKind = iota
	BuiltinGetWindowDefaultFontSize
	BuiltinAnimationTick
	BuiltinDebug
	// BuiltinMod is the floored modulo, the result has the sign of the divisor
	BuiltinMod
	BuiltinRound
	BuiltinCeil
	BuiltinFloor
	BuiltinAbs
	BuiltinSqrt
	BuiltinCos
	BuiltinSin
	BuiltinTan
	BuiltinACos
	BuiltinASin
	BuiltinATan
	BuiltinATan2
	BuiltinLog
	BuiltinPow
	BuiltinMin
	BuiltinMax
	BuiltinSetFocusItem
	BuiltinClearFocusItem
	// BuiltinShowPopupWindow takes (popup index, x, y, anchor item)
	BuiltinShowPopupWindow
	// BuiltinClosePopupWindow takes (popup index, anchor item)
	BuiltinClosePopupWindow
	// BuiltinShowPopupMenu takes (menu index, x, y, anchor item)
	BuiltinShowPopupMenu
	// BuiltinItemMemberFunction calls a function implemented by a native item
	BuiltinItemMemberFunction
	BuiltinStringToFloat
	BuiltinStringIsFloat
	BuiltinColorBrighter
	BuiltinColorDarker
	BuiltinColorTransparentize
	BuiltinColorMix
	BuiltinColorWithAlpha
	BuiltinImageSize
	BuiltinArrayLength
	BuiltinRgb
	BuiltinDarkColorScheme
	BuiltinTextInputFocused
	BuiltinSetTextInputFocused
	BuiltinImplicitLayoutInfo
	BuiltinItemAbsolutePosition
	BuiltinRegisterCustomFontByPath
	BuiltinRegisterCustomFontByMemory
	BuiltinRegisterBitmapFont
	// BuiltinTranslate is the gettext-style lookup used when translations are not bundled.
	// Arguments: (context, string, domain, format args, n, plural)
	BuiltinTranslate
)

var builtinNames = map[BuiltinKind]string{
	BuiltinGetWindowScaleFactor:       "get-window-scale-factor",
	BuiltinGetWindowDefaultFontSize:   "get-window-default-font-size",
	BuiltinAnimationTick:              "animation-tick",
	BuiltinDebug:                      "debug",
	BuiltinMod:                        "mod",
	BuiltinRound:                      "round",
	BuiltinCeil:                       "ceil",
	BuiltinFloor:                      "floor",
	BuiltinAbs:                        "abs",
	BuiltinSqrt:                       "sqrt",
	BuiltinCos:                        "cos",
	BuiltinSin:                        "sin",
	BuiltinTan:                        "tan",
	BuiltinACos:                       "acos",
	BuiltinASin:                       "asin",
	BuiltinATan:                       "atan",
	BuiltinATan2:                      "atan2",
	BuiltinLog:                        "log",
	BuiltinPow:                        "pow",
	BuiltinMin:                        "min",
	BuiltinMax:                        "max",
	BuiltinSetFocusItem:               "set-focus-item",
	BuiltinClearFocusItem:             "clear-focus-item",
	BuiltinShowPopupWindow:            "show-popup-window",
	BuiltinClosePopupWindow:           "close-popup-window",
	BuiltinShowPopupMenu:              "show-popup-menu",
	BuiltinItemMemberFunction:         "item-member-function",
	BuiltinStringToFloat:              "string-to-float",
	BuiltinStringIsFloat:              "string-is-float",
	BuiltinColorBrighter:              "color-brighter",
	BuiltinColorDarker:                "color-darker",
	BuiltinColorTransparentize:        "color-transparentize",
	BuiltinColorMix:                   "color-mix",
	BuiltinColorWithAlpha:             "color-with-alpha",
	BuiltinImageSize:                  "image-size",
	BuiltinArrayLength:                "array-length",
	BuiltinRgb:                        "rgb",
	BuiltinDarkColorScheme:            "dark-color-scheme",
	BuiltinTextInputFocused:           "text-input-focused",
	BuiltinSetTextInputFocused:        "set-text-input-focused",
	BuiltinImplicitLayoutInfo:         "implicit-layout-info",
	BuiltinItemAbsolutePosition:       "item-absolute-position",
	BuiltinRegisterCustomFontByPath:   "register-custom-font-by-path",
	BuiltinRegisterCustomFontByMemory: "register-custom-font-by-memory",
	BuiltinRegisterBitmapFont:         "register-bitmap-font",
	BuiltinTranslate:                  "translate",
}

// String returns the name used in LLR documents
func (k BuiltinKind) String() string {
	if n, ok := builtinNames[k]; ok {
		return n
	}
	return fmt.Sprintf("BuiltinKind(%d)", int(k))
}

// BuiltinKindFromName is the inverse of BuiltinKind.String
func BuiltinKindFromName(name string) (BuiltinKind, bool) {
	for k, n := range builtinNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// BuiltinFunction is a builtin function together with its static parameters
type BuiltinFunction struct {
	Kind BuiltinKind
	// Member is the item function name for BuiltinItemMemberFunction
	Member string
	// Orientation for BuiltinImplicitLayoutInfo
	Orientation Orientation
}

// Builtin is a shorthand for a BuiltinFunction without static parameters
func Builtin(kind BuiltinKind) BuiltinFunction {
	return BuiltinFunction{Kind: kind}
}

// ReturnType returns the type produced by a call
func (f BuiltinFunction) ReturnType() *langtype.Type {
	switch f.Kind {
	case BuiltinGetWindowScaleFactor, BuiltinMod, BuiltinRound, BuiltinCeil, BuiltinFloor,
		BuiltinAbs, BuiltinSqrt, BuiltinCos, BuiltinSin, BuiltinTan, BuiltinLog, BuiltinPow,
		BuiltinMin, BuiltinMax, BuiltinStringToFloat:
		return langtype.Float32
	case BuiltinACos, BuiltinASin, BuiltinATan, BuiltinATan2:
		return langtype.Angle
	case BuiltinGetWindowDefaultFontSize:
		return langtype.LogicalLength
	case BuiltinAnimationTick:
		return langtype.Duration
	case BuiltinStringIsFloat, BuiltinDarkColorScheme, BuiltinTextInputFocused:
		return langtype.Bool
	case BuiltinColorBrighter, BuiltinColorDarker, BuiltinColorTransparentize, BuiltinColorMix,
		BuiltinColorWithAlpha, BuiltinRgb:
		return langtype.Color
	case BuiltinImageSize:
		return langtype.SizeStruct
	case BuiltinItemAbsolutePosition:
		return langtype.PointStruct
	case BuiltinArrayLength:
		return langtype.Int32
	case BuiltinImplicitLayoutInfo:
		return langtype.LayoutInfoStruct
	case BuiltinTranslate:
		return langtype.String
	}
	return langtype.Void
}

// IsPure reports whether the call has no side effects
func (f BuiltinFunction) IsPure() bool {
	switch f.Kind {
	case BuiltinDebug, BuiltinSetFocusItem, BuiltinClearFocusItem, BuiltinShowPopupWindow,
		BuiltinClosePopupWindow, BuiltinShowPopupMenu, BuiltinItemMemberFunction,
		BuiltinSetTextInputFocused, BuiltinRegisterCustomFontByPath,
		BuiltinRegisterCustomFontByMemory, BuiltinRegisterBitmapFont:
		return false
	}
	return true
}

// Orientation of a layout
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}
