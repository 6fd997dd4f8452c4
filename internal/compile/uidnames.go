package compile

import (
	"fmt"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// UidSiblingOp appends the resolved category and class captions to the
// descriptions of the category_name and class_name sibling attributes.
type UidSiblingOp struct {
	operation
}

func (op UidSiblingOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	event, ok := target.Data.(*record.Event)
	if !ok {
		return nil, fmt.Errorf("%s is not an event", op.target)
	}
	if event.Attributes == nil {
		return nil, nil
	}

	var results []merge.Path

	if event.Name == nil || *event.Name != "base_event" {
		if appendSiblingCaption(event.Attributes, "category_uid", "category_name") {
			results = append(results, merge.Path{"attributes", "category_name", "description"})
		}
	}
	if appendSiblingCaption(event.Attributes, "class_uid", "class_name") {
		results = append(results, merge.Path{"attributes", "class_name", "description"})
	}
	return results, nil
}

// appendSiblingCaption rewrites the name attribute's trailing period into a
// ": <code>caption</code>." suffix using the uid attribute's first enum
// member.
func appendSiblingCaption(attrs map[string]*record.Attr, uidName, nameAttr string) bool {
	uid, ok := attrs[uidName]
	if !ok || len(uid.Enum) == 0 {
		return false
	}
	name, ok := attrs[nameAttr]
	if !ok || name.Description == nil {
		return false
	}

	member := uid.Enum[sortedKeys(uid.Enum)[0]]
	desc := *name.Description
	if len(desc) > 0 {
		desc = desc[:len(desc)-1]
	}
	desc = fmt.Sprintf("%s: <code>%s</code>.", desc, str(member.Caption))
	name.Description = &desc
	return true
}

// UidSiblingPlanner annotates category_name and class_name on every event.
type UidSiblingPlanner struct{}

func (UidSiblingPlanner) Analyze(file *record.File) ([]Operation, error) {
	if _, ok := file.Data.(*record.Event); !ok {
		return nil, nil
	}
	return []Operation{UidSiblingOp{operation{target: file.Path}}}, nil
}
