package compile

import (
	"path"
	"strings"

	"github.com/seclattice/taxonomy/errors"
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// ExtendsOp merges a base object or event into its child. The merge runs
// without overwrite, so every field the child sets wins.
type ExtendsOp struct {
	operation
}

func (op ExtendsOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	prereq, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}
	return merge.Records(target.Data, prereq.Data, merge.Options{}), nil
}

// findBase locates the base record named by an extends reference, searching
// the same kind directory as the child (including its extension directory),
// matching by file stem or declared name, and falling back to the core
// location for extension files.
func findBase(repo *record.Repository, subject, relativeTo string) string {
	segs := strings.Split(relativeTo, "/")
	idx := -1
	for i, seg := range segs {
		if seg == record.DirObjects || seg == record.DirEvents {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	prefix := path.Join(segs[:idx+1]...)

	for _, file := range repo.Files() {
		if !strings.HasPrefix(file.Path, prefix) {
			continue
		}
		if file.ShortName() == subject {
			return file.Path
		}
		switch data := file.Data.(type) {
		case *record.Object:
			if data.Name != nil && *data.Name == subject {
				return file.Path
			}
		case *record.Event:
			if data.Name != nil && *data.Name == subject {
				return file.Path
			}
		}
	}

	if record.ExtensionDir(relativeTo) != "" {
		return findBase(repo, subject, record.Extensionless(relativeTo))
	}
	return ""
}

// ExtendsPlanner proposes inheritance merges for objects and events with an
// extends reference. An unresolvable base is an error.
type ExtendsPlanner struct {
	proto   *Proto
	options Options
}

func (p *ExtendsPlanner) Analyze(file *record.File) ([]Operation, error) {
	var extends *string
	switch data := file.Data.(type) {
	case *record.Object:
		extends = data.Extends
	case *record.Event:
		extends = data.Extends
	default:
		return nil, nil
	}
	if extends == nil {
		return nil, nil
	}

	location := findBase(p.proto.Repo(), *extends, file.Path)
	if location == "" {
		return nil, errors.NewCompilationf(errors.ErrMissingBase, file.Path,
			"cannot find base %q", *extends)
	}
	if location == file.Path {
		return nil, nil
	}
	return []Operation{ExtendsOp{operation{target: file.Path, prereq: location}}}, nil
}
