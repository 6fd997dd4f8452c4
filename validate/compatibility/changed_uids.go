package compatibility

import (
	"fmt"

	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
	"github.com/seclattice/taxonomy/validate"
)

// ChangedClassUIDFinding reports an event whose class UID moved.
type ChangedClassUIDFinding struct {
	Event  string
	Before string
	After  string
}

func (f *ChangedClassUIDFinding) Message() string {
	return fmt.Sprintf("The class UID of %s changed from %s to %s", f.Event, f.Before, f.After)
}

func (f *ChangedClassUIDFinding) Severity() validate.Severity { return validate.SeverityError }

// NoChangedClassUIDsRule flags events whose class_uid enum swapped one key
// for another. Class UIDs are static identifiers; the usual cause of a
// change is a class moving between categories or out of an extension.
type NoChangedClassUIDsRule struct{}

func (*NoChangedClassUIDsRule) Metadata() validate.RuleMetadata {
	return validate.RuleMetadata{
		Name: "No changed class UIDs",
		Description: "Class UIDs are static identifiers for event classes and must " +
			"never change, even when a class moves to a new category or from an " +
			"extension into core.",
	}
}

func (*NoChangedClassUIDsRule) Validate(ctx *Context) []validate.Finding {
	if ctx.Change == nil {
		return nil
	}

	var findings []validate.Finding
	for _, name := range sortedKeys(ctx.Change.Classes) {
		event, ok := ctx.Change.Classes[name].(*compare.ChangedEvent)
		if !ok {
			continue
		}
		attr, ok := event.Attributes["class_uid"].(*compare.ChangedAttr)
		if !ok || attr.Enum == nil {
			continue
		}

		var before, after string
		for key, member := range attr.Enum {
			switch member.(type) {
			case compare.Removal[*schema.EnumMember]:
				before = key
			case compare.Addition[*schema.EnumMember]:
				after = key
			}
		}
		if before != "" && after != "" {
			findings = append(findings, &ChangedClassUIDFinding{Event: name, Before: before, After: after})
		}
	}
	return findings
}
