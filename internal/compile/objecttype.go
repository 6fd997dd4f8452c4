package compile

import (
	"strings"

	"github.com/seclattice/taxonomy/errors"
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// typeRegistry indexes object and event names to their captions. It is
// built once from the repository on first use.
type typeRegistry struct {
	proto   *Proto
	objects map[string]*string
	events  map[string]*string
	built   bool
}

func newTypeRegistry(proto *Proto) *typeRegistry {
	return &typeRegistry{proto: proto}
}

func (r *typeRegistry) build() {
	if r.built {
		return
	}
	r.objects = make(map[string]*string)
	r.events = make(map[string]*string)

	for _, file := range r.proto.Repo().Files() {
		switch v := file.Data.(type) {
		case *record.Object:
			if v.Name != nil {
				r.objects[*v.Name] = v.Caption
			}
		case *record.Event:
			if v.Name != nil {
				r.events[*v.Name] = v.Caption
			}
		}
	}
	r.built = true
}

// ObjectTypeOp rewrites attributes whose type names an object or event to
// the canonical shape: type "object" or "event" with object_type and
// object_name carrying the referenced record.
type ObjectTypeOp struct {
	operation
	types *typeRegistry
}

func (op ObjectTypeOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	attrs := record.Attrs(target.Data)
	if attrs == nil {
		return nil, nil
	}

	op.types.build()

	var results []merge.Path
	for _, name := range sortedKeys(attrs) {
		attr := attrs[name]
		if attr.Type == nil || strings.HasSuffix(*attr.Type, "_t") {
			continue
		}

		ref := *attr.Type
		// Extension prefixing may already have rewritten the reference to
		// "<extension>/<name>"; the registry is keyed by bare names.
		lookup := ref
		if idx := strings.LastIndex(ref, "/"); idx >= 0 {
			lookup = ref[idx+1:]
		}
		if caption, ok := op.types.objects[lookup]; ok {
			marker := "object"
			attr.ObjectType, attr.ObjectName, attr.Type = &ref, caption, &marker
		} else if caption, ok := op.types.events[lookup]; ok {
			marker := "event"
			attr.ObjectType, attr.ObjectName, attr.Type = &ref, caption, &marker
		} else {
			return nil, errors.NewCompilationf(errors.ErrUnknownObjectType, op.target,
				"unknown object type %q in attribute %s", ref, name)
		}

		results = append(results,
			merge.Path{"attributes", name, "type"},
			merge.Path{"attributes", name, "object_type"},
			merge.Path{"attributes", name, "object_name"})
	}
	return results, nil
}

// ObjectTypePlanner rewrites object-valued attribute types on every
// attribute-bearing record. The shared registry is built at first apply,
// after earlier phases have settled record names.
type ObjectTypePlanner struct {
	options Options
	types   *typeRegistry
}

// NewObjectTypePlanner builds the planner and its shared registry.
func NewObjectTypePlanner(proto *Proto, options Options) *ObjectTypePlanner {
	return &ObjectTypePlanner{options: options, types: newTypeRegistry(proto)}
}

func (p *ObjectTypePlanner) Analyze(file *record.File) ([]Operation, error) {
	if !p.options.SetObjectTypes {
		return nil, nil
	}
	if !record.HasAttrs(file.Data) {
		return nil, nil
	}
	return []Operation{ObjectTypeOp{operation: operation{target: file.Path}, types: p.types}}, nil
}
