package interpreter_test

import (
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
)

func rectangle(name string) llr.Item {
	class, _ := langtype.LookupNativeClass("Rectangle")
	return llr.Item{Class: class, Name: name}
}

func intPtr(i int) *int { return &i }

func num(v float64) llr.Expression { return &llr.NumberLiteral{Value: v} }

func str(s string) llr.Expression { return &llr.StringLiteral{Value: s} }

func local(i int) *llr.LocalRef { return &llr.LocalRef{PropertyIndex: i} }

func read(ref llr.PropertyReference) llr.Expression {
	return &llr.PropertyReferenceExpr{Ref: ref}
}

func add(lhs, rhs llr.Expression) llr.Expression {
	return &llr.BinaryExpression{LHS: lhs, RHS: rhs, Op: '+'}
}

func assign(ref llr.PropertyReference, v llr.Expression) llr.Expression {
	return &llr.PropertyAssignment{Property: ref, Value: v}
}

func binding(e llr.Expression) *llr.BindingExpression {
	return &llr.BindingExpression{Expression: e}
}

func array(values ...llr.Expression) llr.Expression {
	return &llr.Array{ElementType: langtype.Int32, Values: values, AsModel: true}
}

// publicComponent wraps root into a compilation unit exposing props
func publicComponent(root *llr.SubComponent, props []llr.PublicProperty, globals ...*llr.GlobalComponent) *llr.CompilationUnit {
	return &llr.CompilationUnit{
		Globals: globals,
		PublicComponents: []*llr.PublicComponent{{
			Name:             root.Name,
			PublicProperties: props,
			Item:             llr.ItemTree{Root: root, Tree: &llr.TreeNode{}},
		}},
	}
}

// exposeAll makes every property and function of sc public
func exposeAll(sc *llr.SubComponent) []llr.PublicProperty {
	var props []llr.PublicProperty
	for i, p := range sc.Properties {
		props = append(props, llr.PublicProperty{Name: p.Name, Type: p.Type, Ref: local(i)})
	}
	for i, f := range sc.Functions {
		props = append(props, llr.PublicProperty{
			Name: f.Name,
			Type: langtype.NewFunction(f.ReturnType, f.Args...),
			Ref:  &llr.FunctionRef{FunctionIndex: i},
		})
	}
	return props
}

// layoutInfo is a LayoutInfo literal growing with the given stretch
func layoutInfo(stretch float64) llr.Expression {
	return &llr.Struct{
		Type: langtype.LayoutInfoStruct,
		Values: map[string]llr.Expression{
			"min":         num(0),
			"max":         num(runtime.MaxCoord),
			"min_percent": num(0),
			"max_percent": num(100),
			"preferred":   num(0),
			"stretch":     num(stretch),
		},
	}
}
