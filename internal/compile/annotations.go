package compile

import (
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// AnnotationOp expands a record's annotations into each of its attributes.
type AnnotationOp struct {
	operation
}

func (op AnnotationOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}

	annotations := record.Annotations(target.Data)
	attrs := record.Attrs(target.Data)
	if annotations == nil || attrs == nil {
		return nil, nil
	}

	var results []merge.Path
	for _, name := range sortedKeys(attrs) {
		changed := merge.Records(attrs[name], annotations, merge.Options{Overwrite: true})
		for _, change := range changed {
			results = append(results, prepend(change, "attributes", name))
		}
	}
	return results, nil
}

// AnnotationPlanner proposes annotation expansion for every record variant
// that supports annotations.
type AnnotationPlanner struct {
	options Options
}

func (p *AnnotationPlanner) Analyze(file *record.File) ([]Operation, error) {
	switch file.Data.(type) {
	case *record.Profile, *record.Include:
		return []Operation{AnnotationOp{operation{target: file.Path}}}, nil
	}
	return nil, nil
}
