package compatibility

import (
	"fmt"

	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
	"github.com/seclattice/taxonomy/validate"
)

// ChangedTypeFinding reports an attribute whose data type changed
// incompatibly.
type ChangedTypeFinding struct {
	Element ElementType
	Record  string
	Attr    string
	Before  string
	After   string
}

func (f *ChangedTypeFinding) Message() string {
	return fmt.Sprintf("Type of %s %s.%s changed from %s to %s",
		f.Element, f.Record, f.Attr, f.Before, f.After)
}

func (f *ChangedTypeFinding) Severity() validate.Severity { return validate.SeverityError }

// NoChangedTypesRule flags attribute type changes. Widening integer_t to
// long_t is allowed, as is any change between dictionary types that share
// an underlying primitive type.
type NoChangedTypesRule struct{}

func (*NoChangedTypesRule) Metadata() validate.RuleMetadata {
	return validate.RuleMetadata{
		Name: "No changed attribute types",
		Description: "Changing an attribute's data type can break consumers in " +
			"strict encodings, so type changes are breaking unless the old and " +
			"new types share an underlying primitive.",
	}
}

func (r *NoChangedTypesRule) Validate(ctx *Context) []validate.Finding {
	if ctx.Change == nil {
		return nil
	}

	var findings []validate.Finding
	for _, name := range sortedKeys(ctx.Change.Classes) {
		event, ok := ctx.Change.Classes[name].(*compare.ChangedEvent)
		if !ok {
			continue
		}
		for _, attrName := range sortedKeys(event.Attributes) {
			if finding := r.check(ctx, ElementEvent, name, attrName, event.Attributes[attrName]); finding != nil {
				findings = append(findings, finding)
			}
		}
	}
	for _, name := range sortedKeys(ctx.Change.Objects) {
		object, ok := ctx.Change.Objects[name].(*compare.ChangedObject)
		if !ok {
			continue
		}
		for _, attrName := range sortedKeys(object.Attributes) {
			if finding := r.check(ctx, ElementObject, name, attrName, object.Attributes[attrName]); finding != nil {
				findings = append(findings, finding)
			}
		}
	}
	return findings
}

func (*NoChangedTypesRule) check(ctx *Context, element ElementType, record, attrName string, diff compare.Difference[*schema.Attr]) validate.Finding {
	changed, ok := diff.(*compare.ChangedAttr)
	if !ok {
		return nil
	}
	typeChange, ok := changed.Type.(compare.Change[string])
	if !ok {
		return nil
	}

	// Widening only costs memory; even strict encodings survive it.
	if typeChange.Before == "integer_t" && typeChange.After == "long_t" {
		return nil
	}
	if samePrimitive(ctx, typeChange.Before, typeChange.After) {
		return nil
	}

	return &ChangedTypeFinding{
		Element: element,
		Record:  record,
		Attr:    attrName,
		Before:  typeChange.Before,
		After:   typeChange.After,
	}
}

// samePrimitive reports whether two dictionary type names resolve to the
// same underlying primitive type in their respective schemas.
func samePrimitive(ctx *Context, before, after string) bool {
	if ctx.Before == nil || ctx.After == nil {
		return false
	}
	left, ok := ctx.Before.Types[before]
	if !ok {
		return false
	}
	right, ok := ctx.After.Types[after]
	if !ok {
		return false
	}
	switch {
	case left.Type == nil && right.Type == nil:
		return true
	case left.Type == nil || right.Type == nil:
		return false
	default:
		return *left.Type == *right.Type
	}
}
