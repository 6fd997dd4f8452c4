package compile

import (
	"fmt"
	"path"
	"strings"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// MarkProfileOp stamps every attribute of a profile definition with the
// profile's name so downstream merges can attribute them.
type MarkProfileOp struct {
	operation
}

func (op MarkProfileOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	profile, ok := target.Data.(*record.Profile)
	if !ok {
		return nil, fmt.Errorf("%s is not a profile", op.target)
	}
	if profile.Attributes == nil {
		return nil, nil
	}
	if profile.Name == nil {
		return nil, fmt.Errorf("missing profile name in %s", op.target)
	}

	var results []merge.Path
	for _, name := range sortedKeys(profile.Attributes) {
		profile.Attributes[name].Profile = record.FlexStrings{*profile.Name}
		results = append(results, merge.Path{"attributes", name, "profile"})
	}
	return results, nil
}

// ExcludeProfileAttrsOp removes from a record the attributes contributed by a
// profile that is not enabled for this compilation.
type ExcludeProfileAttrsOp struct {
	operation
}

func (op ExcludeProfileAttrsOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	attrs := record.Attrs(target.Data)
	if attrs == nil {
		return nil, nil
	}

	source, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}
	profile, ok := source.Data.(*record.Profile)
	if !ok {
		return nil, fmt.Errorf("%s is not a profile", op.prereq)
	}

	var results []merge.Path
	for _, name := range sortedKeys(profile.Attributes) {
		if _, ok := attrs[name]; ok {
			delete(attrs, name)
			results = append(results, merge.Path{"attributes", name})
		}
	}
	return results, nil
}

// findProfile resolves a profile reference as written in a record's profiles
// list. References come in several shapes: a bare repo path, a short name
// under profiles/, or "<extension>/<name>". Later candidates win.
func findProfile(proto *Proto, profileRef, relativeTo string) string {
	stem := record.ShortName(profileRef)
	search := []string{profileRef, path.Join(record.DirProfiles, stem+".json")}

	if extn := record.ExtensionDir(relativeTo); extn != "" {
		search = append(search, path.Join(record.DirExtensions, extn, record.DirProfiles, stem+".json"))
	}

	if idx := strings.Index(profileRef, "/"); idx > 0 {
		if extnPath, err := proto.FindExtensionPath(profileRef[:idx]); err == nil {
			search = append(search, path.Join(extnPath, record.DirProfiles, stem+".json"))
		}
	}

	for i := len(search) - 1; i >= 0; i-- {
		if proto.Repo().Contains(search[i]) {
			return search[i]
		}
	}
	return ""
}

// MarkProfilePlanner marks the attributes of every profile definition.
type MarkProfilePlanner struct{}

func (MarkProfilePlanner) Analyze(file *record.File) ([]Operation, error) {
	if _, ok := file.Data.(*record.Profile); !ok {
		return nil, nil
	}
	return []Operation{MarkProfileOp{operation{target: file.Path}}}, nil
}

// ExcludeProfileAttrsPlanner strips disabled profiles' attributes from
// objects and events that reference them.
type ExcludeProfileAttrsPlanner struct {
	proto   *Proto
	options Options
}

func (p *ExcludeProfileAttrsPlanner) Analyze(file *record.File) ([]Operation, error) {
	var refs record.FlexStrings
	switch v := file.Data.(type) {
	case *record.Object:
		refs = v.Profiles
	case *record.Event:
		refs = v.Profiles
	default:
		return nil, nil
	}

	for _, ref := range refs {
		loc := findProfile(p.proto, ref, file.Path)
		if loc != "" && !p.options.ProfileEnabled(record.ShortName(ref)) {
			return []Operation{ExcludeProfileAttrsOp{operation{target: file.Path, prereq: loc}}}, nil
		}
	}
	return nil, nil
}
