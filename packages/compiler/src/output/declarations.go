package output

// Access is the visibility of a struct member
type Access int

const (
	// AccessPublic members are part of the generated API
	AccessPublic Access = iota
	AccessPrivate
	// AccessNone is for languages without member visibility
	AccessNone
)

// Declaration is a top level or member declaration of a generated file
type Declaration interface {
	isDeclaration()
}

// Member is a declaration inside a struct, with its visibility
type Member struct {
	Access Access
	Decl   Declaration
}

// Struct is a struct or class declaration
type Struct struct {
	Name    string
	Members []Member
	Friends []string
	// Extends lists the base types
	Extends []string
}

// Function is a function or method. Statements nil means declaration only.
type Function struct {
	Name string
	// Signature includes the parameters and the return type in target syntax
	Signature  string
	Statements []string
	// IsConstructorOrDestructor functions have no return type
	IsConstructorOrDestructor bool
	IsStatic                  bool
	IsFriend                  bool
	IsInline                  bool
	// TemplateParameters is the content of `template<...>`
	TemplateParameters string
	// ConstructorMemberInitializers are the `: a(b)` initializers
	ConstructorMemberInitializers []string
}

// Var is a variable or field
type Var struct {
	Type string
	Name string
	// ArraySize is the size of a C array, 0 for non-arrays
	ArraySize int
	Init      string
	IsExtern  bool
	IsInline  bool
	IsConst   bool
}

// Enum is an enumeration declaration
type Enum struct {
	Name   string
	Values []string
}

// TypeAlias is `using NewName = OldName`
type TypeAlias struct {
	NewName string
	OldName string
}

// Raw is a fragment emitted verbatim, one entry per line
type Raw struct {
	Lines []string
}

func (*Struct) isDeclaration()    {}
func (*Function) isDeclaration()  {}
func (*Var) isDeclaration()       {}
func (*Enum) isDeclaration()      {}
func (*TypeAlias) isDeclaration() {}
func (*Raw) isDeclaration()       {}

// File is a translation unit buffered before it is printed
type File struct {
	Includes     []string
	Namespace    string
	Preamble     []Declaration
	Declarations []Declaration
	Resources    []Declaration
	Definitions  []Declaration
}

// AddInclude appends an include once
func (f *File) AddInclude(include string) {
	for _, i := range f.Includes {
		if i == include {
			return
		}
	}
	f.Includes = append(f.Includes, include)
}

// AddMember appends a member to the struct
func (s *Struct) AddMember(access Access, decl Declaration) {
	s.Members = append(s.Members, Member{Access: access, Decl: decl})
}

// SplitRoundRobin distributes items over n buckets, item i going to bucket i%n.
// Bucket sizes differ by at most one.
func SplitRoundRobin[T any](items []T, n int) [][]T {
	if n <= 0 {
		n = 1
	}
	buckets := make([][]T, n)
	for i, item := range items {
		buckets[i%n] = append(buckets[i%n], item)
	}
	return buckets
}
