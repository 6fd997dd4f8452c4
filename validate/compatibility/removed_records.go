package compatibility

import (
	"fmt"
	"reflect"

	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
	"github.com/seclattice/taxonomy/validate"
)

type removedFinding struct {
	Root    ElementType
	Path    []string
	Name    string
	Caption string
}

func (f removedFinding) Message() string {
	return fmt.Sprintf("%s (%s) was removed", elementPath(f.Root, f.Path, f.Name), f.Caption)
}

func (f removedFinding) Severity() validate.Severity { return validate.SeverityError }

// RemovedEventFinding reports a removed event class.
type RemovedEventFinding struct{ removedFinding }

// RemovedObjectFinding reports a removed object.
type RemovedObjectFinding struct{ removedFinding }

// RemovedAttrFinding reports an attribute removed from an event or object.
type RemovedAttrFinding struct{ removedFinding }

// RemovedEnumMemberFinding reports an enum member removed from an attribute.
type RemovedEnumMemberFinding struct{ removedFinding }

type renamedFinding struct {
	Root    ElementType
	Path    []string
	Before  string
	After   string
	Caption string
}

func (f renamedFinding) Message() string {
	return fmt.Sprintf("%s (%s) appears to have been renamed to %s",
		elementPath(f.Root, f.Path, f.Before), f.Caption, elementPath(f.Root, f.Path, f.After))
}

func (f renamedFinding) Severity() validate.Severity { return validate.SeverityError }

// RenamedEventFinding reports an event class removed and re-added under a
// new name.
type RenamedEventFinding struct{ renamedFinding }

// RenamedObjectFinding reports an object removed and re-added under a new
// name.
type RenamedObjectFinding struct{ renamedFinding }

// RenamedAttrFinding reports a renamed attribute.
type RenamedAttrFinding struct{ renamedFinding }

// RenamedEnumMemberFinding reports a renamed enum member.
type RenamedEnumMemberFinding struct{ renamedFinding }

// NoRemovedRecordsRule flags removed or renamed events, objects,
// attributes, and enum members. A rename is a removal paired with an
// addition in the same set sharing a caption, or for events a class_uid.
type NoRemovedRecordsRule struct{}

func (*NoRemovedRecordsRule) Metadata() validate.RuleMetadata {
	return validate.RuleMetadata{
		Name: "No removed or renamed schema elements",
		Description: "Removing events, objects, attributes, or enum members breaks " +
			"compatibility; deprecate them instead. Renaming is removal under " +
			"another name and is just as breaking.",
	}
}

func (*NoRemovedRecordsRule) Validate(ctx *Context) []validate.Finding {
	if ctx.Change == nil {
		return nil
	}

	var findings []validate.Finding
	findings = append(findings, removedEvents(ctx.Change.Classes)...)
	findings = append(findings, removedObjects(ctx.Change.Objects)...)

	for _, name := range sortedKeys(ctx.Change.Classes) {
		if changed, ok := ctx.Change.Classes[name].(*compare.ChangedEvent); ok {
			findings = append(findings, removedAttrs(ElementEvent, name, changed.Attributes)...)
		}
	}
	for _, name := range sortedKeys(ctx.Change.Objects) {
		if changed, ok := ctx.Change.Objects[name].(*compare.ChangedObject); ok {
			findings = append(findings, removedAttrs(ElementObject, name, changed.Attributes)...)
		}
	}
	return findings
}

func removedEvents(classes map[string]compare.Difference[*schema.Event]) []validate.Finding {
	var findings []validate.Finding
	for _, name := range sortedKeys(classes) {
		removed, ok := classes[name].(compare.Removal[*schema.Event])
		if !ok {
			continue
		}

		renamed := false
		for _, candidate := range sortedKeys(classes) {
			added, ok := classes[candidate].(compare.Addition[*schema.Event])
			if !ok {
				continue
			}
			if added.After.Caption == removed.Before.Caption || sameClassUID(removed.Before, added.After) {
				findings = append(findings, &RenamedEventFinding{renamedFinding{
					Root:    ElementEvent,
					Before:  removed.Before.Name,
					After:   added.After.Name,
					Caption: removed.Before.Caption,
				}})
				renamed = true
				break
			}
		}
		if !renamed {
			findings = append(findings, &RemovedEventFinding{removedFinding{
				Root:    ElementEvent,
				Name:    name,
				Caption: removed.Before.Caption,
			}})
		}
	}
	return findings
}

// sameClassUID reports whether both events carry an identical class_uid
// attribute, the strongest rename signal an event can give.
func sameClassUID(before, after *schema.Event) bool {
	left, ok := before.Attributes["class_uid"]
	if !ok {
		return false
	}
	right, ok := after.Attributes["class_uid"]
	if !ok {
		return false
	}
	return reflect.DeepEqual(left, right)
}

func removedObjects(objects map[string]compare.Difference[*schema.Object]) []validate.Finding {
	var findings []validate.Finding
	for _, name := range sortedKeys(objects) {
		removed, ok := objects[name].(compare.Removal[*schema.Object])
		if !ok {
			continue
		}

		renamed := false
		for _, candidate := range sortedKeys(objects) {
			added, ok := objects[candidate].(compare.Addition[*schema.Object])
			if !ok {
				continue
			}
			if added.After.Caption == removed.Before.Caption {
				findings = append(findings, &RenamedObjectFinding{renamedFinding{
					Root:    ElementObject,
					Before:  removed.Before.Name,
					After:   added.After.Name,
					Caption: removed.Before.Caption,
				}})
				renamed = true
				break
			}
		}
		if !renamed {
			findings = append(findings, &RemovedObjectFinding{removedFinding{
				Root:    ElementObject,
				Name:    name,
				Caption: removed.Before.Caption,
			}})
		}
	}
	return findings
}

func removedAttrs(root ElementType, record string, attrs map[string]compare.Difference[*schema.Attr]) []validate.Finding {
	var findings []validate.Finding
	for _, name := range sortedKeys(attrs) {
		switch diff := attrs[name].(type) {
		case compare.Removal[*schema.Attr]:
			renamed := false
			for _, candidate := range sortedKeys(attrs) {
				added, ok := attrs[candidate].(compare.Addition[*schema.Attr])
				if !ok {
					continue
				}
				if added.After.Caption == diff.Before.Caption {
					findings = append(findings, &RenamedAttrFinding{renamedFinding{
						Root:    root,
						Path:    []string{record},
						Before:  name,
						After:   candidate,
						Caption: diff.Before.Caption,
					}})
					renamed = true
					break
				}
			}
			if !renamed {
				findings = append(findings, &RemovedAttrFinding{removedFinding{
					Root:    root,
					Path:    []string{record},
					Name:    name,
					Caption: diff.Before.Caption,
				}})
			}

		case *compare.ChangedAttr:
			findings = append(findings, removedEnumMembers(root, record, name, diff.Enum)...)
		}
	}
	return findings
}

func removedEnumMembers(root ElementType, record, attr string, enum map[string]compare.Difference[*schema.EnumMember]) []validate.Finding {
	var findings []validate.Finding
	for _, key := range sortedKeys(enum) {
		removed, ok := enum[key].(compare.Removal[*schema.EnumMember])
		if !ok {
			continue
		}

		renamed := false
		for _, candidate := range sortedKeys(enum) {
			added, ok := enum[candidate].(compare.Addition[*schema.EnumMember])
			if !ok {
				continue
			}
			if added.After.Caption == removed.Before.Caption {
				findings = append(findings, &RenamedEnumMemberFinding{renamedFinding{
					Root:    root,
					Path:    []string{record, attr},
					Before:  key,
					After:   candidate,
					Caption: removed.Before.Caption,
				}})
				renamed = true
				break
			}
		}
		if !renamed {
			findings = append(findings, &RemovedEnumMemberFinding{removedFinding{
				Root:    root,
				Path:    []string{record, attr},
				Name:    key,
				Caption: removed.Before.Caption,
			}})
		}
	}
	return findings
}
