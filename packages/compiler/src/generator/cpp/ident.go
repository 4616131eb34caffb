package cpp

import (
	"strings"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/util"
)

var reservedWords = generator.ReservedSet(
	"alignas", "alignof", "and", "and_eq", "asm", "atomic_cancel", "atomic_commit",
	"atomic_noexcept", "auto", "bitand", "bitor", "bool", "break", "case", "catch", "char",
	"char8_t", "char16_t", "char32_t", "class", "compl", "concept", "const", "consteval",
	"constexpr", "constinit", "const_cast", "continue", "co_await", "co_return", "co_yield",
	"decltype", "default", "delete", "do", "double", "dynamic_cast", "else", "enum", "explicit",
	"export", "extern", "false", "float", "for", "friend", "goto", "if", "inline", "int", "long",
	"mutable", "namespace", "new", "noexcept", "not", "not_eq", "nullptr", "operator", "or",
	"or_eq", "private", "protected", "public", "reflexpr", "register", "reinterpret_cast",
	"requires", "return", "short", "signed", "sizeof", "static", "static_assert", "static_cast",
	"struct", "switch", "synchronized", "template", "this", "thread_local", "throw", "true", "try",
	"typedef", "typeid", "typename", "union", "unsigned", "using", "virtual", "void", "volatile",
	"wchar_t", "while", "xor", "xor_eq",
	// names used by the generated code itself
	"self", "index", "parent",
)

// ident maps a name of the UI language to a C++ identifier
func ident(name string) string {
	return generator.MangleIdent(name, reservedWords)
}

// pascalIdent is used for enumerators
func pascalIdent(name string) string {
	return ident(util.DashCaseToPascalCase(name))
}

// cppType returns the C++ type of a value of type t. ok is false for types
// without a value representation (callbacks, element references).
func cppType(t *langtype.Type) (string, bool) {
	switch t.Kind {
	case langtype.KindVoid:
		return "void", true
	case langtype.KindFloat32, langtype.KindPhysicalLength, langtype.KindLogicalLength,
		langtype.KindRem, langtype.KindAngle, langtype.KindPercent, langtype.KindUnitProduct:
		return "float", true
	case langtype.KindDuration:
		return "std::int64_t", true
	case langtype.KindInt32:
		return "int", true
	case langtype.KindString:
		return "slint::SharedString", true
	case langtype.KindColor:
		return "slint::Color", true
	case langtype.KindBrush:
		return "slint::Brush", true
	case langtype.KindImage:
		return "slint::Image", true
	case langtype.KindBool:
		return "bool", true
	case langtype.KindModel:
		return "std::shared_ptr<slint::Model<int>>", true
	case langtype.KindPathData:
		return "slint::private_api::PathData", true
	case langtype.KindEasing:
		return "slint::cbindgen_private::EasingCurve", true
	case langtype.KindLayoutCache:
		return "slint::SharedVector<float>", true
	case langtype.KindComponentFactory:
		return "slint::ComponentFactory", true
	case langtype.KindArray:
		elem, ok := cppType(t.Elem)
		if !ok {
			return "", false
		}
		return "std::shared_ptr<slint::Model<" + elem + ">>", true
	case langtype.KindStruct:
		if t.Name == "" {
			fields := make([]string, 0, len(t.Fields))
			for _, f := range t.Fields {
				ft, ok := cppType(f.Type)
				if !ok {
					return "", false
				}
				fields = append(fields, ft)
			}
			return "std::tuple<" + strings.Join(fields, ", ") + ">", true
		}
		if t.BuiltinStruct {
			return "slint::cbindgen_private::" + ident(t.Name), true
		}
		return ident(t.Name), true
	case langtype.KindEnumeration:
		if t.Enum.Builtin {
			return "slint::cbindgen_private::" + ident(t.Enum.Name), true
		}
		return ident(t.Enum.Name), true
	}
	return "", false
}

// mustCppType is cppType for places where an unmappable type is an internal error
func mustCppType(t *langtype.Type) string {
	s, ok := cppType(t)
	if !ok {
		util.InternalError("type %s has no C++ representation", t)
	}
	return s
}

// propertyFieldType returns the type of the field storing a property or callback
func propertyFieldType(t *langtype.Type) string {
	if t.Kind == langtype.KindCallback {
		return "slint::private_api::Callback<" + mustCppType(t.Return) + "(" + strings.Join(argTypes(t.Args), ", ") + ")>"
	}
	return "slint::private_api::Property<" + mustCppType(t) + ">"
}

func argTypes(args []*langtype.Type) []string {
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = mustCppType(a)
	}
	return types
}

// parameterList renders typed parameters named arg_0, arg_1, ...
func parameterList(args []*langtype.Type) string {
	params := make([]string, len(args))
	for i, a := range args {
		params[i] = mustCppType(a) + " " + argName(i)
	}
	return strings.Join(params, ", ")
}

func argName(i int) string {
	return "arg_" + itoa(i)
}
