package llr

import "sort"

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedFieldNames returns the keys of a struct literal in canonical order
func (s *Struct) SortedFieldNames() []string {
	return sortedKeys(s.Values)
}

// Index returns a pointer to i, for optional indices
func Index(i int) *int {
	return &i
}
