package compile

import (
	"sort"

	"github.com/seclattice/taxonomy/internal/merge"
)

// sortedKeys returns the map's keys in lexical order so that operations
// touch attributes deterministically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// prepend builds a field path rooted under the given leading segments.
func prepend(p merge.Path, lead ...string) merge.Path {
	return append(append(merge.Path{}, lead...), p...)
}
