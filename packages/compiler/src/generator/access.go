package generator

import (
	"fmt"

	"slintc-go/packages/compiler/src/llr"
)

// AccessKind is what a resolved reference designates
type AccessKind int

const (
	// AccessProperty is a property or callback of a sub-component
	AccessProperty AccessKind = iota
	// AccessFunction is a function of a sub-component
	AccessFunction
	// AccessItem is a native item itself
	AccessItem
	// AccessItemProperty is a property of a native item
	AccessItemProperty
	// AccessGlobalProperty is a property or callback of a global
	AccessGlobalProperty
	// AccessGlobalFunction is a function of a global
	AccessGlobalFunction
)

// MemberAccess is a property reference resolved to a path of member accesses.
//
// Starting from the current component, ParentHops weak parent links are dereferenced,
// then the nested sub-component fields in Path are walked, then the member is accessed.
// Globals are reached through the globals table instead.
type MemberAccess struct {
	Kind       AccessKind
	ParentHops int
	// Path holds the names of the nested sub-component instances walked
	Path []string
	// Name of the property, function or item
	Name string
	// ItemProperty is the native property name for AccessItemProperty
	ItemProperty string
	// SubComponent is the sub-component owning the member
	SubComponent *llr.SubComponent
	Property     *llr.Property
	Function     *llr.Function
	Item         *llr.Item
	Global       *llr.GlobalComponent
	// InCurrentGlobal is set for local references inside a global
	InCurrentGlobal bool
}

// ResolveMember resolves ref in ctx. It also returns the context in which the member is
// declared, i.e. the ancestor reached after ParentHops hops.
// Out of range indices are internal errors and panic.
func ResolveMember[T any](ref llr.PropertyReference, ctx *llr.EvaluationContext[T]) (MemberAccess, *llr.EvaluationContext[T]) {
	switch r := ref.(type) {
	case *llr.InParentRef:
		if r.Level <= 0 {
			panic(fmt.Sprintf("internal error: invalid parent level %d", r.Level))
		}
		ancestor := ctx
		for i := 0; i < r.Level; i++ {
			if ancestor.Parent == nil {
				panic(fmt.Sprintf("internal error: %s escapes the root context after %d hops", ref, i))
			}
			ancestor = ancestor.Parent.Ctx
		}
		access, owner := ResolveMember(r.Inner, ancestor)
		access.ParentHops += r.Level
		return access, owner
	case *llr.LocalRef:
		if ctx.CurrentSubComponent == nil {
			g := ctx.CurrentGlobal
			checkIndex(r.PropertyIndex, len(g.Properties), "property", g.Name)
			p := &g.Properties[r.PropertyIndex]
			return MemberAccess{Kind: AccessGlobalProperty, Name: p.Name, Property: p, Global: g, InCurrentGlobal: true}, ctx
		}
		path, sc := walkPath(ctx.CurrentSubComponent, r.SubComponentPath)
		checkIndex(r.PropertyIndex, len(sc.Properties), "property", sc.Name)
		p := &sc.Properties[r.PropertyIndex]
		return MemberAccess{Kind: AccessProperty, Path: path, Name: p.Name, SubComponent: sc, Property: p}, ctx
	case *llr.FunctionRef:
		if ctx.CurrentSubComponent == nil {
			g := ctx.CurrentGlobal
			checkIndex(r.FunctionIndex, len(g.Functions), "function", g.Name)
			f := &g.Functions[r.FunctionIndex]
			return MemberAccess{Kind: AccessGlobalFunction, Name: f.Name, Function: f, Global: g, InCurrentGlobal: true}, ctx
		}
		path, sc := walkPath(ctx.CurrentSubComponent, r.SubComponentPath)
		checkIndex(r.FunctionIndex, len(sc.Functions), "function", sc.Name)
		f := &sc.Functions[r.FunctionIndex]
		return MemberAccess{Kind: AccessFunction, Path: path, Name: f.Name, SubComponent: sc, Function: f}, ctx
	case *llr.InNativeItemRef:
		if ctx.CurrentSubComponent == nil {
			panic(fmt.Sprintf("internal error: item reference %s inside a global", ref))
		}
		path, sc := walkPath(ctx.CurrentSubComponent, r.SubComponentPath)
		checkIndex(r.ItemIndex, len(sc.Items), "item", sc.Name)
		item := &sc.Items[r.ItemIndex]
		kind := AccessItemProperty
		if r.PropName == "" {
			kind = AccessItem
		}
		return MemberAccess{Kind: kind, Path: path, Name: item.Name, ItemProperty: r.PropName, SubComponent: sc, Item: item}, ctx
	case *llr.GlobalRef:
		checkIndex(r.GlobalIndex, len(ctx.Unit.Globals), "global", "compilation unit")
		g := ctx.Unit.Globals[r.GlobalIndex]
		checkIndex(r.PropertyIndex, len(g.Properties), "property", g.Name)
		p := &g.Properties[r.PropertyIndex]
		inCurrent := ctx.CurrentGlobal == g
		return MemberAccess{Kind: AccessGlobalProperty, Name: p.Name, Property: p, Global: g, InCurrentGlobal: inCurrent}, ctx
	case *llr.GlobalFunctionRef:
		checkIndex(r.GlobalIndex, len(ctx.Unit.Globals), "global", "compilation unit")
		g := ctx.Unit.Globals[r.GlobalIndex]
		checkIndex(r.FunctionIndex, len(g.Functions), "function", g.Name)
		f := &g.Functions[r.FunctionIndex]
		inCurrent := ctx.CurrentGlobal == g
		return MemberAccess{Kind: AccessGlobalFunction, Name: f.Name, Function: f, Global: g, InCurrentGlobal: inCurrent}, ctx
	}
	panic(fmt.Sprintf("internal error: unknown property reference %T", ref))
}

func walkPath(sc *llr.SubComponent, path []int) ([]string, *llr.SubComponent) {
	names := make([]string, 0, len(path))
	for _, i := range path {
		checkIndex(i, len(sc.SubComponents), "sub-component", sc.Name)
		names = append(names, sc.SubComponents[i].Name)
		sc = sc.SubComponents[i].Type
	}
	return names, sc
}

func checkIndex(i, n int, what, owner string) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("internal error: %s index %d out of range in %s (%d entries)", what, i, owner, n))
	}
}

// ItemTreeIndex returns the index in the flattened tree of the item ref refers to, as an
// offset expression: the base is either "tree_index" (the item is the root of its
// sub-component) or "tree_index_of_first_child" plus Offset.
type ItemTreeIndex struct {
	// IsRoot is set when the item is the root node of its sub-component
	IsRoot bool
	// Offset is added to the index of the first child when IsRoot is not set
	Offset int
}

// ResolveItemTreeIndex computes where an item lives in the flattened tree, relative to the
// bookkeeping fields of the sub-component owning it
func ResolveItemTreeIndex(item *llr.Item) ItemTreeIndex {
	if item.IndexInTree == 0 {
		return ItemTreeIndex{IsRoot: true}
	}
	return ItemTreeIndex{Offset: item.IndexInTree - 1}
}

// RepeaterRange returns the absolute repeater index of repeater r of the sub-component
// reached by walking path from sc
func RepeaterRange(sc *llr.SubComponent, path []int, r int) int {
	offset := 0
	for _, i := range path {
		offset += sc.SubComponents[i].RepeaterOffset
		sc = sc.SubComponents[i].Type
	}
	return offset + r
}
