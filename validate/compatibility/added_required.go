package compatibility

import (
	"fmt"

	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
	"github.com/seclattice/taxonomy/validate"
)

// AddedRequiredAttrFinding reports a required attribute added to an
// existing event or object.
type AddedRequiredAttrFinding struct {
	Element  ElementType
	Record   string
	Attr     string
	severity validate.Severity
}

func (f *AddedRequiredAttrFinding) Message() string {
	return fmt.Sprintf("New required attribute added to %s %s.%s", f.Element, f.Record, f.Attr)
}

func (f *AddedRequiredAttrFinding) Severity() validate.Severity { return f.severity }

// NoAddedRequiredAttrsRule flags required attributes added to existing
// records. Records produced under the older schema will lack them. An
// attribute that arrives with a newly added profile is exempt: older
// records were never produced using that profile. When the schemas carry no
// profiles at all the findings downgrade to warnings, since the exemption
// cannot be checked.
type NoAddedRequiredAttrsRule struct{}

func (*NoAddedRequiredAttrsRule) Metadata() validate.RuleMetadata {
	return validate.RuleMetadata{
		Name: "No added required attributes",
		Description: "Adding a required attribute to an existing event or object " +
			"invalidates records produced under the older schema. New attributes " +
			"should be optional or recommended unless they arrive with a new profile.",
	}
}

func (*NoAddedRequiredAttrsRule) Validate(ctx *Context) []validate.Finding {
	if ctx.Change == nil {
		return nil
	}

	severity := validate.SeverityError
	if len(ctx.Change.Profiles) == 0 {
		severity = validate.SeverityWarning
	}

	var findings []validate.Finding
	for _, name := range sortedKeys(ctx.Change.Classes) {
		event, ok := ctx.Change.Classes[name].(*compare.ChangedEvent)
		if !ok {
			continue
		}
		findings = append(findings, addedRequired(ctx, ElementEvent, name, event.Attributes, severity)...)
	}
	for _, name := range sortedKeys(ctx.Change.Objects) {
		object, ok := ctx.Change.Objects[name].(*compare.ChangedObject)
		if !ok {
			continue
		}
		findings = append(findings, addedRequired(ctx, ElementObject, name, object.Attributes, severity)...)
	}
	return findings
}

func addedRequired(ctx *Context, element ElementType, record string, attrs map[string]compare.Difference[*schema.Attr], severity validate.Severity) []validate.Finding {
	var findings []validate.Finding
	for _, name := range sortedKeys(attrs) {
		added, ok := attrs[name].(compare.Addition[*schema.Attr])
		if !ok || added.After.Requirement != "required" {
			continue
		}
		if inAddedProfile(ctx, name) {
			continue
		}
		findings = append(findings, &AddedRequiredAttrFinding{
			Element:  element,
			Record:   record,
			Attr:     name,
			severity: severity,
		})
	}
	return findings
}

// inAddedProfile reports whether an attribute name belongs to a profile
// that is new in the after schema.
func inAddedProfile(ctx *Context, attrName string) bool {
	for _, diff := range ctx.Change.Profiles {
		added, ok := diff.(compare.Addition[*schema.Profile])
		if !ok {
			continue
		}
		if _, ok := added.After.Attributes[attrName]; ok {
			return true
		}
	}
	return false
}
