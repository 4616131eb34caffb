package generator

import "strings"

// MangleIdent maps a UI-language identifier to a target identifier.
// Hyphens become underscores. When the name, without its trailing underscores, is a
// reserved word, one more underscore is appended, which keeps the mapping injective.
func MangleIdent(name string, reserved map[string]bool) string {
	name = strings.ReplaceAll(name, "-", "_")
	if reserved[strings.TrimRight(name, "_")] {
		return name + "_"
	}
	return name
}

// ReservedSet builds a lookup set from a word list
func ReservedSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
