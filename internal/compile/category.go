package compile

import (
	"fmt"
	"strings"

	"github.com/seclattice/taxonomy/errors"
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// SetCategoryOp assigns an event's category from its directory position and
// validates it against the declared categories.
type SetCategoryOp struct {
	operation
}

func (op SetCategoryOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	event, ok := target.Data.(*record.Event)
	if !ok {
		return nil, fmt.Errorf("%s is not an event", op.target)
	}
	if event.Category != nil {
		return nil, nil
	}

	segs := strings.Split(record.Extensionless(op.target), "/")
	if len(segs) < 3 || segs[0] != record.DirEvents {
		return nil, errors.NewCompilationf(errors.ErrUnknownCategory, op.target,
			"no category directory for event")
	}
	category := segs[1]

	catFile, err := proto.Get(record.FileCategories)
	if err != nil {
		return nil, errors.NewCompilationf(errors.ErrMissingCategories, op.target,
			"categories file unavailable: %v", err)
	}
	categories, ok := catFile.Data.(*record.Categories)
	if !ok || categories.Attributes == nil {
		return nil, errors.NewCompilationf(errors.ErrMissingCategories, op.target,
			"categories file has no attributes")
	}
	if _, ok := categories.Attributes[category]; !ok {
		return nil, errors.NewCompilationf(errors.ErrUnknownCategory, op.target,
			"unknown category %q", category)
	}

	event.Category = &category
	return []merge.Path{{"category"}}, nil
}

// SetCategoryPlanner assigns categories to events that do not declare one.
type SetCategoryPlanner struct{}

func (SetCategoryPlanner) Analyze(file *record.File) ([]Operation, error) {
	event, ok := file.Data.(*record.Event)
	if !ok || event.Category != nil {
		return nil, nil
	}
	return []Operation{SetCategoryOp{operation{target: file.Path, prereq: record.FileCategories}}}, nil
}
