package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Version represents a semantic version
type Version struct {
	Full  string
	Major int
	Minor int
	Patch int
}

// NewVersion creates a new Version from a full version string such as "1.9.0" or "1.9.0-beta"
func NewVersion(full string) (*Version, error) {
	v := &Version{Full: full}
	core, _, _ := strings.Cut(full, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid version %q: expected major.minor.patch", full)
	}
	fields := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", full, err)
		}
		*fields[i] = n
	}
	return v, nil
}

// MustParseVersion is NewVersion for constants
func MustParseVersion(full string) *Version {
	v, err := NewVersion(full)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the full version
func (v *Version) String() string {
	return v.Full
}

// CompilerVersion is the version of the generator, checked against the runtime library
// by the generated code
var CompilerVersion = MustParseVersion("1.9.0")
