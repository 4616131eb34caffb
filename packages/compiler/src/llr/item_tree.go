package llr

import (
	"sort"

	"slintc-go/packages/compiler/src/langtype"
)

// CompilationUnit is the root of the lowered representation handed to the generators
type CompilationUnit struct {
	PublicComponents []*PublicComponent
	// SubComponents lists every sub-component, dependencies first
	SubComponents []*SubComponent
	Globals       []*GlobalComponent
	// UsedStructs are the user structs that need a declaration, dependencies first
	UsedStructs  []*langtype.Type
	UsedEnums    []*langtype.Enumeration
	Resources    []*EmbeddedResource
	Translations *Translations
	HasDebugInfo bool
}

// PublicComponent is an exported component with its item tree
type PublicComponent struct {
	Name              string
	PublicProperties  []PublicProperty
	PrivateProperties []PrivateProperty
	Item              ItemTree
}

// PublicProperty is a property, callback or function exposed in the generated API
type PublicProperty struct {
	Name     string
	Type     *langtype.Type
	Ref      PropertyReference
	ReadOnly bool
}

// PrivateProperty is used by tooling to inspect non-exposed properties
type PrivateProperty struct {
	Name string
	Type *langtype.Type
}

// Property is a property or callback of a sub-component or global
type Property struct {
	Name string
	Type *langtype.Type
	// UseCount of 0 means nothing reads or writes the property
	UseCount int
}

// Function is a declared function
type Function struct {
	Name       string
	ReturnType *langtype.Type
	Args       []*langtype.Type
	Code       Expression
}

// GlobalComponent is a global singleton
type GlobalComponent struct {
	Name       string
	Properties []Property
	Functions  []Function
	// InitValues has one optional entry per property
	InitValues      []*BindingExpression
	ChangeCallbacks []ChangeCallback
	ConstProperties []bool
	// PublicProperties lists what the exported accessor exposes
	PublicProperties []PublicProperty
	// Exported globals get a public accessor type
	Exported bool
	// Aliases are the extra exported names of the global
	Aliases []string
	// IsBuiltin globals are implemented by the runtime library
	IsBuiltin bool
	InitCode  []Expression
}

// AnimationKind says how an animation is applied
type AnimationKind int

const (
	// AnimationStatic is a PropertyAnimation struct applied to every change
	AnimationStatic AnimationKind = iota
	// AnimationTransition picks the animation from the state transition
	AnimationTransition
)

// Animation is attached to a binding
type Animation struct {
	Kind       AnimationKind
	Expression Expression
}

// BindingExpression is the initial value or binding of a property
type BindingExpression struct {
	Expression Expression
	Animation  *Animation
	// IsConstant bindings are evaluated once and stored with a plain set
	IsConstant bool
	// IsStateInfo bindings track state machine transitions
	IsStateInfo bool
	UseCount    int
}

// PropertyInit is one entry of the ordered property initialization list
type PropertyInit struct {
	Ref     PropertyReference
	Binding *BindingExpression
}

// TwoWayBinding links two properties
type TwoWayBinding struct {
	A PropertyReference
	B PropertyReference
}

// ListViewInfo holds the geometry references of a virtualized list.
// The viewport and listview references are in the parent context, the prop references
// in the repeated sub-component.
type ListViewInfo struct {
	ViewportY      PropertyReference
	ViewportHeight PropertyReference
	ViewportWidth  PropertyReference
	ListViewHeight PropertyReference
	ListViewWidth  PropertyReference
	PropY          PropertyReference
	PropWidth      PropertyReference
	PropHeight     PropertyReference
}

// RepeatedElement backs both `for` and `if`. Conditionals have neither index nor data property.
type RepeatedElement struct {
	Model Expression
	// IndexProp is the index property within the sub-tree's root, nil if absent
	IndexProp *int
	// DataProp is the model data property within the sub-tree's root, nil if absent
	DataProp    *int
	SubTree     ItemTree
	IndexInTree int
	ListView    *ListViewInfo
}

// Item is a native item
type Item struct {
	Class       *langtype.NativeClass
	Name        string
	IndexInTree int
	// IsFlickableViewport items are provided by the enclosing Flickable
	IsFlickableViewport bool
}

// SubComponentInstance is a sub-component embedded by value in another one
type SubComponentInstance struct {
	Type                    *SubComponent
	Name                    string
	IndexInTree             int
	IndexOfFirstChildInTree int
	RepeaterOffset          int
}

// PopupWindow is an item tree shown on demand above its parent
type PopupWindow struct {
	Item ItemTree
}

// Timer fires Triggered every Interval while Running is true
type Timer struct {
	Interval  Expression
	Running   Expression
	Triggered Expression
}

// ChangeCallback runs Code whenever the value of Property changes
type ChangeCallback struct {
	Property PropertyReference
	Code     Expression
}

// AccessibleKey identifies an accessible property of an item
type AccessibleKey struct {
	ItemIndex int
	What      string
}

// SubComponent is a node of composition of the lowered tree
type SubComponent struct {
	Name            string
	Properties      []Property
	Functions       []Function
	Items           []Item
	Repeated        []RepeatedElement
	PopupWindows    []PopupWindow
	MenuItemTrees   []ItemTree
	Timers          []Timer
	SubComponents   []SubComponentInstance
	PropertyInit    []PropertyInit
	ChangeCallbacks []ChangeCallback
	TwoWayBindings  []TwoWayBinding
	ConstProperties []PropertyReference
	// InitCode runs during user_init, after every binding is installed
	InitCode []Expression
	// LayoutInfoH and LayoutInfoV produce a LayoutInfo struct
	LayoutInfoH Expression
	LayoutInfoV Expression
	// AccessibleProps maps (item, "accessible-role" | "accessible-label" | ...) to its value
	AccessibleProps map[AccessibleKey]Expression
	// Geometries has one optional entry per item index in the tree
	Geometries   []Expression
	ElementInfos map[int]string
}

// RepeaterCount is the number of repeaters including those of nested sub-components
func (sc *SubComponent) RepeaterCount() int {
	count := len(sc.Repeated)
	for _, sub := range sc.SubComponents {
		count += sub.Type.RepeaterCount()
	}
	return count
}

// ChildItemCount is the number of item tree nodes the sub-component occupies, its root
// node included
func (sc *SubComponent) ChildItemCount() int {
	count := len(sc.Items) + len(sc.Repeated)
	for _, sub := range sc.SubComponents {
		count += sub.Type.ChildItemCount()
	}
	return count
}

// AccessibleKeys returns the accessible property keys sorted by item then name
func (sc *SubComponent) AccessibleKeys() []AccessibleKey {
	keys := make([]AccessibleKey, 0, len(sc.AccessibleProps))
	for k := range sc.AccessibleProps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemIndex != keys[j].ItemIndex {
			return keys[i].ItemIndex < keys[j].ItemIndex
		}
		return keys[i].What < keys[j].What
	})
	return keys
}

// ItemTree is a sub-component used as the root of a standalone tree
type ItemTree struct {
	Root *SubComponent
	Tree *TreeNode
	// ParentContext is the name of the parent tree type, empty for public components
	ParentContext string
}

// ResourceKind is the encoding of an embedded resource
type ResourceKind int

const (
	ResourceRawData ResourceKind = iota
	ResourceTexture
	ResourceBitmapFont
)

// EmbeddedResource is data embedded in the generated code, referenced by ID
type EmbeddedResource struct {
	ID        int
	Kind      ResourceKind
	Data      []byte
	Extension string
	Texture   *Texture
	Font      *BitmapFont
}

// Texture is a pre-rasterized image
type Texture struct {
	Width, Height                 int
	Format                        string
	RectX, RectY, RectW, RectH    int
	OriginalWidth, OriginalHeight int
	Data                          []byte
}

// BitmapGlyph is one pre-rendered glyph
type BitmapGlyph struct {
	X, Y, Width, Height, XAdvance int
	Data                          []byte
}

// BitmapGlyphs are the glyphs rendered at one pixel size
type BitmapGlyphs struct {
	PixelSize int
	Glyphs    []BitmapGlyph
}

// CharacterMapEntry maps a code point to a glyph index
type CharacterMapEntry struct {
	Code       rune
	GlyphIndex int
}

// BitmapFont is a pre-rendered font
type BitmapFont struct {
	Family                      string
	UnitsPerEm, Ascent, Descent float64
	XHeight, CapHeight          float64
	IsVariable                  bool
	CharacterMap                []CharacterMapEntry
	Glyphs                      []BitmapGlyphs
}

// Translations holds the bundled translations.
// Strings[i][l] is the translation of string i in language l, "" when missing.
// Plurals[i][l] holds the plural forms, nil when missing.
// PluralRules[l] maps n (argument 0) to the index of the form, nil uses the CLDR rules.
type Translations struct {
	Languages   []string
	Strings     [][]string
	Plurals     [][][]string
	PluralRules []Expression
}
