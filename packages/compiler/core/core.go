package core

// Target is an output language of the code generator
type Target int

const (
	// TargetCpp generates a C++ header and optional definition files
	TargetCpp Target = iota
	// TargetJs generates an ES module
	TargetJs
)

// String returns the name used on the command line
func (t Target) String() string {
	switch t {
	case TargetCpp:
		return "cpp"
	case TargetJs:
		return "js"
	}
	return "unknown"
}

// ParseTarget parses a command line target name
func ParseTarget(name string) (Target, bool) {
	switch name {
	case "cpp", "c++":
		return TargetCpp, true
	case "js", "javascript":
		return TargetJs, true
	}
	return 0, false
}
