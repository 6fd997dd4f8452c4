package compile

import (
	"path"

	"github.com/seclattice/taxonomy/errors"
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// IncludeOp splices an included fragment into its target. Directives found
// inside the attribute map limit the merge to attributes.
type IncludeOp struct {
	operation
	inAttrs bool
}

func (op IncludeOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	prereq, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}

	// The directives are consumed here, on the working copy, so they never
	// leak into later merges or the materialized schema.
	clearIncludeDirectives(target.Data)

	opts := merge.Options{}
	if op.inAttrs {
		opts.AllowedFields = []merge.Path{{"attributes"}}
	}
	return merge.Records(target.Data, prereq.Data, opts), nil
}

func clearIncludeDirectives(d record.Definition) {
	switch v := d.(type) {
	case *record.Object:
		v.Include = nil
	case *record.Event:
		v.Include = nil
	}
	record.ClearAttrIncludes(d)
}

// findDependency resolves an include directive to a repository path by
// walking up from the source file's directory, trying the extensionless
// location as well for files inside an extension.
func findDependency(repo *record.Repository, subject, relativeTo string) string {
	candidates := []string{subject}
	if path.Ext(subject) != ".json" {
		candidates = append(candidates, subject+".json")
	}

	starts := []string{relativeTo}
	if record.ExtensionDir(relativeTo) != "" {
		starts = append(starts, record.Extensionless(relativeTo))
	}

	for _, start := range starts {
		dir := path.Dir(start)
		for {
			for _, candidate := range candidates {
				if full := path.Join(dir, candidate); repo.Contains(full) {
					return full
				}
			}
			if dir == "." {
				break
			}
			dir = path.Dir(dir)
		}
	}
	return ""
}

// IncludePlanner proposes splice operations for record-level and
// attribute-level include directives.
type IncludePlanner struct {
	proto   *Proto
	options Options
}

func (p *IncludePlanner) Analyze(file *record.File) ([]Operation, error) {
	var found []Operation

	var recordLevel record.FlexStrings
	switch data := file.Data.(type) {
	case *record.Object:
		recordLevel = data.Include
	case *record.Event:
		recordLevel = data.Include
	}
	for _, include := range recordLevel {
		location := findDependency(p.proto.Repo(), include, file.Path)
		if location == "" {
			return nil, errors.NewCompilationf(errors.ErrMissingInclude, file.Path,
				"cannot resolve include %q", include)
		}
		found = append(found, IncludeOp{operation: operation{target: file.Path, prereq: location}})
	}

	for _, include := range record.AttrIncludes(file.Data) {
		location := findDependency(p.proto.Repo(), include, file.Path)
		if location == "" {
			return nil, errors.NewCompilationf(errors.ErrMissingInclude, file.Path,
				"cannot resolve attribute include %q", include)
		}
		found = append(found, IncludeOp{
			operation: operation{target: file.Path, prereq: location},
			inAttrs:   true,
		})
	}

	return found, nil
}
