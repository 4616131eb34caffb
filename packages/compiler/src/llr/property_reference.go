package llr

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyReference is a reference to a property, callback or function, relative to the
// sub-component (or global) of an EvaluationContext.
//
// The concrete variants are LocalRef, FunctionRef, InNativeItemRef, InParentRef,
// GlobalRef and GlobalFunctionRef.
type PropertyReference interface {
	isPropertyReference()
	fmt.Stringer
}

// LocalRef is a property declared in this sub-component or in a nested one
type LocalRef struct {
	SubComponentPath []int
	PropertyIndex    int
}

// FunctionRef is a function declared in this sub-component or in a nested one
type FunctionRef struct {
	SubComponentPath []int
	FunctionIndex    int
}

// InNativeItemRef is a property of a native item. An empty PropName denotes the item
// itself, which is how items are passed to builtin functions.
type InNativeItemRef struct {
	SubComponentPath []int
	ItemIndex        int
	PropName         string
}

// InParentRef is a reference resolved in the context Level hops above the current one.
// Level is always strictly positive.
type InParentRef struct {
	Level int
	Inner PropertyReference
}

// GlobalRef is a property of a global singleton
type GlobalRef struct {
	GlobalIndex   int
	PropertyIndex int
}

// GlobalFunctionRef is a function of a global singleton
type GlobalFunctionRef struct {
	GlobalIndex   int
	FunctionIndex int
}

func (*LocalRef) isPropertyReference()          {}
func (*FunctionRef) isPropertyReference()       {}
func (*InNativeItemRef) isPropertyReference()   {}
func (*InParentRef) isPropertyReference()       {}
func (*GlobalRef) isPropertyReference()         {}
func (*GlobalFunctionRef) isPropertyReference() {}

func pathString(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

func (r *LocalRef) String() string {
	return fmt.Sprintf("local(%s:%d)", pathString(r.SubComponentPath), r.PropertyIndex)
}

func (r *FunctionRef) String() string {
	return fmt.Sprintf("function(%s:%d)", pathString(r.SubComponentPath), r.FunctionIndex)
}

func (r *InNativeItemRef) String() string {
	return fmt.Sprintf("item(%s:%d).%s", pathString(r.SubComponentPath), r.ItemIndex, r.PropName)
}

func (r *InParentRef) String() string {
	return fmt.Sprintf("parent(%d, %s)", r.Level, r.Inner)
}

func (r *GlobalRef) String() string {
	return fmt.Sprintf("global(%d:%d)", r.GlobalIndex, r.PropertyIndex)
}

func (r *GlobalFunctionRef) String() string {
	return fmt.Sprintf("global-function(%d:%d)", r.GlobalIndex, r.FunctionIndex)
}

// NewInParent wraps inner so that it is resolved level contexts up. Nested InParent
// references are collapsed into one.
func NewInParent(level int, inner PropertyReference) PropertyReference {
	if level <= 0 {
		panic(fmt.Sprintf("internal error: InParent level must be positive, got %d", level))
	}
	if p, ok := inner.(*InParentRef); ok {
		return &InParentRef{Level: level + p.Level, Inner: p.Inner}
	}
	return &InParentRef{Level: level, Inner: inner}
}

// IsItemReference reports whether ref denotes a native item rather than one of its properties
func IsItemReference(ref PropertyReference) bool {
	switch r := ref.(type) {
	case *InNativeItemRef:
		return r.PropName == ""
	case *InParentRef:
		return IsItemReference(r.Inner)
	}
	return false
}

// RefKey returns a canonical string usable as a map key
func RefKey(ref PropertyReference) string {
	return ref.String()
}
