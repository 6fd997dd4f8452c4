package compile

import (
	"fmt"
	"path"
	"strings"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// MarkExtensionOp tags an extension-introduced record with the extension's
// declared name, which may differ from its directory name.
type MarkExtensionOp struct {
	operation
}

func (op MarkExtensionOp) Apply(proto *Proto) ([]merge.Path, error) {
	source, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}

	dir := record.ExtensionDir(op.prereq)
	marker, err := proto.Get(path.Join(record.DirExtensions, dir, record.FileExtension))
	if err != nil {
		return nil, err
	}
	ext, ok := marker.Data.(*record.Extension)
	if !ok || ext.Name == nil {
		return nil, fmt.Errorf("extension %s has no declared name", dir)
	}

	if !record.SetSrcExtension(source.Data, *ext.Name) {
		return nil, nil
	}
	return []merge.Path{{"src_extension"}}, nil
}

// ExtensionModifyOp applies an extension's patch of an existing core record.
// The extension's fields win.
type ExtensionModifyOp struct {
	operation
}

func (op ExtensionModifyOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	source, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}
	return merge.Records(target.Data, source.Data, merge.Options{Overwrite: true}), nil
}

// ExtensionCopyOp copies an extension-introduced record into the core
// namespace so the final schema includes it.
type ExtensionCopyOp struct {
	operation
}

func (op ExtensionCopyOp) Apply(proto *Proto) ([]merge.Path, error) {
	source, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}
	switch source.Data.(type) {
	case *record.Object, *record.Event, *record.Profile:
	default:
		return nil, nil
	}

	copied := &record.File{Path: op.target, Data: merge.Copy(source.Data)}
	proto.Put(op.target, copied)
	return []merge.Path{{"*"}}, nil
}

// extensionScoped resolves the enabled-extension list once per compilation.
type extensionScoped struct {
	options Options
}

func (p extensionScoped) enabled(pth string) (dir string, ok bool) {
	dir = record.ExtensionDir(pth)
	return dir, dir != "" && p.options.ExtensionEnabled(dir)
}

// MarkExtensionPlanner tags records introduced by an extension, that is,
// extension files whose core location does not exist.
type MarkExtensionPlanner struct {
	extensionScoped
	proto *Proto
}

func (p *MarkExtensionPlanner) Analyze(file *record.File) ([]Operation, error) {
	if _, ok := p.enabled(file.Path); !ok {
		return nil, nil
	}
	dest := record.Extensionless(file.Path)
	if p.proto.Repo().Contains(dest) {
		return nil, nil
	}
	return []Operation{MarkExtensionOp{operation{target: dest, prereq: file.Path}}}, nil
}

// ExtensionMergePlanner patches core records from extension files whose core
// location exists.
type ExtensionMergePlanner struct {
	extensionScoped
	proto *Proto
}

func (p *ExtensionMergePlanner) Analyze(file *record.File) ([]Operation, error) {
	if _, ok := p.enabled(file.Path); !ok {
		return nil, nil
	}
	dest := record.Extensionless(file.Path)
	if !p.proto.Repo().Contains(dest) {
		return nil, nil
	}
	return []Operation{ExtensionModifyOp{operation{target: dest, prereq: file.Path}}}, nil
}

// ExtensionCopyPlanner copies extension-only records into the core
// namespace at the end of compilation.
type ExtensionCopyPlanner struct {
	extensionScoped
	proto *Proto
}

func (p *ExtensionCopyPlanner) Analyze(file *record.File) ([]Operation, error) {
	if _, ok := p.enabled(file.Path); !ok {
		return nil, nil
	}
	dest := record.Extensionless(file.Path)
	if p.proto.Repo().Contains(dest) {
		return nil, nil
	}
	return []Operation{ExtensionCopyOp{operation{target: dest, prereq: file.Path}}}, nil
}

// PrefixKeyOp rewrites the schema key of an extension-introduced record to
// "<extension>/<name>".
type PrefixKeyOp struct {
	operation
}

func (op PrefixKeyOp) Apply(proto *Proto) ([]merge.Path, error) {
	source, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}

	extn := record.SrcExtension(source.Data)
	if extn == nil {
		return nil, nil
	}
	name := record.Name(source.Data)
	if name == nil {
		return nil, fmt.Errorf("missing name in %s", op.target)
	}
	record.SetKey(source.Data, *extn+"/"+*name)
	return []merge.Path{{"key"}}, nil
}

// TypeMap indexes extension-introduced record names to their prefixed keys.
// It is built once, from the working schema, on first lookup after all key
// prefixing state is in place.
type TypeMap struct {
	proto      *Proto
	extensions []string
	entries    map[string]string
	built      bool
}

// NewTypeMap returns an unbuilt index over the given extension directories.
func NewTypeMap(proto *Proto, extensions []string) *TypeMap {
	return &TypeMap{proto: proto, extensions: extensions}
}

func (m *TypeMap) build() error {
	if m.built {
		return nil
	}
	m.entries = make(map[string]string)

	for _, pth := range m.proto.Repo().Paths() {
		dir := record.ExtensionDir(pth)
		if dir == "" || !contains(m.extensions, dir) {
			continue
		}
		file, err := m.proto.Get(pth)
		if err != nil {
			return err
		}
		if record.SrcExtension(file.Data) == nil {
			continue
		}

		key := record.Key(file.Data)
		name := record.Name(file.Data)
		switch {
		case key != nil && strings.Contains(*key, "/"):
			m.entries[strings.SplitN(*key, "/", 2)[1]] = *key
		case name != nil:
			m.entries[*name] = *record.SrcExtension(file.Data) + "/" + *name
		}
	}

	m.built = true
	return nil
}

// Lookup returns the prefixed key for a bare record name.
func (m *TypeMap) Lookup(name string) (string, bool, error) {
	if err := m.build(); err != nil {
		return "", false, err
	}
	prefixed, ok := m.entries[name]
	return prefixed, ok, nil
}

// PrefixTypeOp rewrites attribute type references to extension-introduced
// records to their prefixed keys.
type PrefixTypeOp struct {
	operation
	types *TypeMap
}

func (op PrefixTypeOp) Apply(proto *Proto) ([]merge.Path, error) {
	source, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	attrs := record.Attrs(source.Data)
	if attrs == nil {
		return nil, nil
	}

	var results []merge.Path
	for _, name := range sortedKeys(attrs) {
		attr := attrs[name]
		if attr.Type == nil {
			continue
		}
		prefixed, ok, err := op.types.Lookup(*attr.Type)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		attr.Type = &prefixed
		results = append(results, merge.Path{"attributes", name, "type"})
	}
	return results, nil
}

// ExtensionPrefixPlanner prefixes extension record keys and the attribute
// type references that point at them.
type ExtensionPrefixPlanner struct {
	extensionScoped
	proto *Proto
	types *TypeMap
}

// NewExtensionPrefixPlanner builds the planner and its shared type index.
func NewExtensionPrefixPlanner(proto *Proto, options Options) *ExtensionPrefixPlanner {
	return &ExtensionPrefixPlanner{
		extensionScoped: extensionScoped{options: options},
		proto:           proto,
		types:           NewTypeMap(proto, options.Extensions),
	}
}

func (p *ExtensionPrefixPlanner) Analyze(file *record.File) ([]Operation, error) {
	if !p.options.PrefixExtensions {
		return nil, nil
	}

	var ops []Operation
	if _, ok := p.enabled(file.Path); ok {
		ops = append(ops, PrefixKeyOp{operation{target: file.Path}})
	}
	if record.HasAttrs(file.Data) {
		ops = append(ops, PrefixTypeOp{operation: operation{target: file.Path}, types: p.types})
	}
	return ops, nil
}
