package js

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/util"
)

var reservedWords = generator.ReservedSet(
	"arguments", "await", "break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "eval", "export", "extends", "false", "finally",
	"for", "function", "if", "implements", "import", "in", "instanceof", "interface", "let",
	"new", "null", "package", "private", "protected", "public", "return", "static", "super",
	"switch", "this", "throw", "true", "try", "typeof", "undefined", "var", "void", "while",
	"with", "yield",
	"self", "index", "parent", "slint", "constructor",
)

func ident(name string) string {
	return generator.MangleIdent(name, reservedWords)
}

func pascalIdent(name string) string {
	return ident(util.DashCaseToPascalCase(name))
}

func argName(i int) string {
	return fmt.Sprintf("arg_%d", i)
}

func parameterList(n int) string {
	names := make([]string, n)
	for i := range names {
		names[i] = argName(i)
	}
	return strings.Join(names, ", ")
}

// defaultValue is the initial value of a property of type t
func defaultValue(t *langtype.Type) string {
	switch t.Kind {
	case langtype.KindFloat32, langtype.KindInt32, langtype.KindDuration, langtype.KindPhysicalLength,
		langtype.KindLogicalLength, langtype.KindRem, langtype.KindAngle, langtype.KindPercent,
		langtype.KindUnitProduct:
		return "0"
	case langtype.KindString:
		return `""`
	case langtype.KindBool:
		return "false"
	case langtype.KindColor:
		return "slint.Color.TRANSPARENT"
	case langtype.KindBrush:
		return "new slint.Brush()"
	case langtype.KindImage:
		return "new slint.Image()"
	case langtype.KindModel, langtype.KindArray:
		return "new slint.ArrayModel([])"
	case langtype.KindEasing:
		return "slint.EasingCurve.LINEAR"
	case langtype.KindPathData:
		return "new slint.PathData()"
	case langtype.KindLayoutCache:
		return "[]"
	case langtype.KindComponentFactory:
		return "null"
	case langtype.KindEnumeration:
		return enumValue(t.Enum.Default())
	case langtype.KindStruct:
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = fmt.Sprintf("%s: %s", ident(f.Name), defaultValue(f.Type))
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	}
	return "undefined"
}

func enumValue(v langtype.EnumerationValue) string {
	if v.Enumeration.Builtin {
		return fmt.Sprintf("slint.enums.%s.%s", ident(v.Enumeration.Name), pascalIdent(v.Name()))
	}
	return fmt.Sprintf("%s.%s", ident(v.Enumeration.Name), pascalIdent(v.Name()))
}
