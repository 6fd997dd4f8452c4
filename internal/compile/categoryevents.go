package compile

import (
	"fmt"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// MapEventToCategoryOp records a compiled event in its category's class
// list. The event is copied without its attributes, which would bloat the
// category listing.
type MapEventToCategoryOp struct {
	operation
}

func (op MapEventToCategoryOp) Apply(proto *Proto) ([]merge.Path, error) {
	source, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}
	event, ok := source.Data.(*record.Event)
	if !ok {
		return nil, fmt.Errorf("%s is not an event", op.prereq)
	}

	key := record.Key(event)
	if event.Category == nil || event.UID == nil || key == nil {
		return nil, nil
	}

	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	categories, ok := target.Data.(*record.Categories)
	if !ok {
		return nil, fmt.Errorf("%s is not a category list", op.target)
	}
	if categories.Attributes == nil {
		return nil, nil
	}

	// Some events name a category the category list does not declare.
	cat, ok := categories.Attributes[*event.Category]
	if !ok {
		return nil, nil
	}
	if cat.Classes == nil {
		cat.Classes = make(map[string]*record.Event)
	}

	entry := *event
	entry.Attributes = nil
	cat.Classes[*key] = &entry

	return []merge.Path{{"attributes", "classes", *event.Category, *key}}, nil
}

// MapEventToCategoryPlanner maps every compiled event into the category
// list.
type MapEventToCategoryPlanner struct {
	options Options
}

func (p MapEventToCategoryPlanner) Analyze(file *record.File) ([]Operation, error) {
	if !p.options.MapEventCategories {
		return nil, nil
	}
	if _, ok := file.Data.(*record.Event); !ok {
		return nil, nil
	}
	return []Operation{MapEventToCategoryOp{operation{target: record.FileCategories, prereq: file.Path}}}, nil
}
