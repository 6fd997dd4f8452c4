package compatibility

import (
	"fmt"
	"slices"

	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
	"github.com/seclattice/taxonomy/validate"
)

// IncreasedRequirementFinding reports an attribute whose requirement was
// strengthened to required.
type IncreasedRequirementFinding struct {
	Element ElementType
	Record  string
	Attr    string
	Before  string
	After   string
}

func (f *IncreasedRequirementFinding) Message() string {
	return fmt.Sprintf("Requirement of %s %s.%s changed from %s to %s",
		f.Element, f.Record, f.Attr, f.Before, f.After)
}

func (f *IncreasedRequirementFinding) Severity() validate.Severity { return validate.SeverityError }

// Events may strengthen these attributes freely; the compiler manages
// their values.
var allowedEventRequirements = []string{"category_uid", "activity_id", "class_uid"}

// NoIncreasedRequirementsRule flags attributes whose requirement changed to
// "required". Records valid under the older schema would lack the
// attribute. Strengthening from optional to recommended stays compatible.
type NoIncreasedRequirementsRule struct{}

func (*NoIncreasedRequirementsRule) Metadata() validate.RuleMetadata {
	return validate.RuleMetadata{
		Name: "No increased requirements",
		Description: "Changing an attribute's requirement from optional or " +
			"recommended to required invalidates previously valid records. " +
			"Optional to recommended is a compatible strengthening.",
	}
}

func (*NoIncreasedRequirementsRule) Validate(ctx *Context) []validate.Finding {
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
			if slices.Contains(allowedEventRequirements, attrName) {
				continue
			}
			if finding := requirementIncrease(ElementEvent, name, attrName, event.Attributes[attrName]); finding != nil {
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
			if finding := requirementIncrease(ElementObject, name, attrName, object.Attributes[attrName]); finding != nil {
				findings = append(findings, finding)
			}
		}
	}
	return findings
}

func requirementIncrease(element ElementType, record, attrName string, diff compare.Difference[*schema.Attr]) validate.Finding {
	changed, ok := diff.(*compare.ChangedAttr)
	if !ok {
		return nil
	}
	requirement, ok := changed.Requirement.(compare.Change[string])
	if !ok || requirement.After != "required" {
		return nil
	}
	return &IncreasedRequirementFinding{
		Element: element,
		Record:  record,
		Attr:    attrName,
		Before:  requirement.Before,
		After:   requirement.After,
	}
}
