package llr

import (
	"fmt"

	"slintc-go/packages/compiler/src/langtype"
)

// NoRepeater marks a ParentCtx that was not created by a repeater (popups, menus)
const NoRepeater = -1

// ParentCtx links a context to the context it was entered from
type ParentCtx[T any] struct {
	Ctx *EvaluationContext[T]
	// RepeaterIndex is the repeater of Ctx's sub-component that instantiates the child,
	// or NoRepeater
	RepeaterIndex int
}

// NewParentCtx creates a parent link
func NewParentCtx[T any](ctx *EvaluationContext[T], repeaterIndex int) *ParentCtx[T] {
	return &ParentCtx[T]{Ctx: ctx, RepeaterIndex: repeaterIndex}
}

// EvaluationContext is the view used while walking one sub-component or global.
// It is created for the duration of a walk and never stored in generated state.
// Exactly one of CurrentSubComponent and CurrentGlobal is set.
type EvaluationContext[T any] struct {
	Unit                *CompilationUnit
	CurrentSubComponent *SubComponent
	CurrentGlobal       *GlobalComponent
	GeneratorState      T
	Parent              *ParentCtx[T]
	ArgumentTypes       []*langtype.Type
}

// NewSubComponentContext creates the context for walking a sub-component
func NewSubComponentContext[T any](unit *CompilationUnit, sc *SubComponent, state T, parent *ParentCtx[T]) *EvaluationContext[T] {
	return &EvaluationContext[T]{
		Unit:                unit,
		CurrentSubComponent: sc,
		GeneratorState:      state,
		Parent:              parent,
	}
}

// NewGlobalContext creates the context for walking a global
func NewGlobalContext[T any](unit *CompilationUnit, g *GlobalComponent, state T) *EvaluationContext[T] {
	return &EvaluationContext[T]{
		Unit:           unit,
		CurrentGlobal:  g,
		GeneratorState: state,
	}
}

// WithArguments returns a copy of the context for compiling a callback or function body
func (ctx *EvaluationContext[T]) WithArguments(args []*langtype.Type) *EvaluationContext[T] {
	c := *ctx
	c.ArgumentTypes = args
	return &c
}

// WithState returns a copy of the context with another generator state
func (ctx *EvaluationContext[T]) WithState(state T) *EvaluationContext[T] {
	c := *ctx
	c.GeneratorState = state
	return &c
}

// Ancestor returns the context level hops up
func (ctx *EvaluationContext[T]) Ancestor(level int) *EvaluationContext[T] {
	c := ctx
	for i := 0; i < level; i++ {
		if c.Parent == nil {
			panic(fmt.Sprintf("internal error: no parent context at level %d of %d", i+1, level))
		}
		c = c.Parent.Ctx
	}
	return c
}

// WalkSubComponentPath follows path from sc through nested sub-component instances
func WalkSubComponentPath(sc *SubComponent, path []int) *SubComponent {
	for _, i := range path {
		if i < 0 || i >= len(sc.SubComponents) {
			panic(fmt.Sprintf("internal error: sub-component index %d out of range in %s", i, sc.Name))
		}
		sc = sc.SubComponents[i].Type
	}
	return sc
}

// ResolveFunction returns the function referenced by a FunctionRef, GlobalFunctionRef, or
// an InParentRef to one of those
func (ctx *EvaluationContext[T]) ResolveFunction(ref PropertyReference) *Function {
	switch r := ref.(type) {
	case *FunctionRef:
		if ctx.CurrentSubComponent != nil {
			sc := WalkSubComponentPath(ctx.CurrentSubComponent, r.SubComponentPath)
			return &sc.Functions[r.FunctionIndex]
		}
		return &ctx.CurrentGlobal.Functions[r.FunctionIndex]
	case *GlobalFunctionRef:
		return &ctx.Unit.Globals[r.GlobalIndex].Functions[r.FunctionIndex]
	case *InParentRef:
		return ctx.Ancestor(r.Level).ResolveFunction(r.Inner)
	}
	panic(fmt.Sprintf("internal error: %s is not a function reference", ref))
}

// ResolveProperty returns the declaration of a property reference. Native item
// properties have no declaration; nil is returned for them.
func (ctx *EvaluationContext[T]) ResolveProperty(ref PropertyReference) *Property {
	switch r := ref.(type) {
	case *LocalRef:
		if ctx.CurrentSubComponent != nil {
			sc := WalkSubComponentPath(ctx.CurrentSubComponent, r.SubComponentPath)
			if r.PropertyIndex >= len(sc.Properties) {
				panic(fmt.Sprintf("internal error: property index %d out of range in %s", r.PropertyIndex, sc.Name))
			}
			return &sc.Properties[r.PropertyIndex]
		}
		return &ctx.CurrentGlobal.Properties[r.PropertyIndex]
	case *GlobalRef:
		return &ctx.Unit.Globals[r.GlobalIndex].Properties[r.PropertyIndex]
	case *InParentRef:
		return ctx.Ancestor(r.Level).ResolveProperty(r.Inner)
	}
	return nil
}

// PropertyType implements TypeResolutionContext
func (ctx *EvaluationContext[T]) PropertyType(ref PropertyReference) *langtype.Type {
	switch r := ref.(type) {
	case *LocalRef, *GlobalRef:
		return ctx.ResolveProperty(ref).Type
	case *InNativeItemRef:
		if r.PropName == "" {
			return langtype.ElementReference
		}
		if r.PropName == "elements" {
			// the path elements are not a property of the native class
			return langtype.PathData
		}
		sc := WalkSubComponentPath(ctx.CurrentSubComponent, r.SubComponentPath)
		t := sc.Items[r.ItemIndex].Class.LookupProperty(r.PropName)
		if t == nil {
			panic(fmt.Sprintf("internal error: no property %q in %s", r.PropName, sc.Items[r.ItemIndex].Class.ClassName))
		}
		return t
	case *InParentRef:
		return ctx.Ancestor(r.Level).PropertyType(r.Inner)
	case *FunctionRef, *GlobalFunctionRef:
		return ctx.ResolveFunction(ref).ReturnType
	}
	panic(fmt.Sprintf("internal error: unknown property reference %T", ref))
}

// ArgType implements TypeResolutionContext
func (ctx *EvaluationContext[T]) ArgType(index int) *langtype.Type {
	if index >= len(ctx.ArgumentTypes) {
		panic(fmt.Sprintf("internal error: argument %d out of range", index))
	}
	return ctx.ArgumentTypes[index]
}

// RelativeContextLevel returns how many hops separate ctx from the context owning the
// sub-component referenced by ref, together with the reference relative to that owner
func RelativeContextLevel(ref PropertyReference) (int, PropertyReference) {
	if p, ok := ref.(*InParentRef); ok {
		return p.Level, p.Inner
	}
	return 0, ref
}
