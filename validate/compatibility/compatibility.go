// Package compatibility validates that the changes between two resolved
// schemas preserve backward compatibility.
//
// Each rule inspects the diff of the two schemas and reports findings for
// changes that would invalidate records produced under the older schema.
// Severity overrides on the runner decide which finding types block a
// release and which merely warn.
package compatibility

import (
	"sort"
	"strings"

	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
	"github.com/seclattice/taxonomy/validate"
)

// ElementType names the kind of record a finding points at.
type ElementType string

const (
	ElementEvent  ElementType = "event"
	ElementObject ElementType = "object"
)

// Context carries the inputs compatibility rules need: the diff plus both
// resolved schemas, since some rules consult values the diff does not
// retain.
type Context struct {
	Change *compare.ChangedSchema
	Before *schema.Schema
	After  *schema.Schema
}

// NewContext diffs two schemas and wraps the result for validation. A nil
// Change means the schemas are identical.
func NewContext(before, after *schema.Schema) *Context {
	ctx := &Context{Before: before, After: after}
	if changed, ok := compare.Diff(before, after).(*compare.ChangedSchema); ok {
		ctx.Change = changed
	}
	return ctx
}

// Rules returns the compatibility rule set in execution order.
func Rules() []validate.Rule[*Context] {
	return []validate.Rule[*Context]{
		&NoRemovedRecordsRule{},
		&NoChangedClassUIDsRule{},
		&NoIncreasedRequirementsRule{},
		&NoChangedTypesRule{},
		&NoAddedRequiredAttrsRule{},
	}
}

// NewValidator builds a runner over the full compatibility rule set.
func NewValidator(opts ...validate.RunnerOption) (*validate.Runner[*Context], error) {
	return validate.NewRunner(Rules(), opts...)
}

// elementPath formats a finding location as root:segment.segment.name.
func elementPath(root ElementType, path []string, name string) string {
	return string(root) + ":" + strings.Join(append(append([]string{}, path...), name), ".")
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
