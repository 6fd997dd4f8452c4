package compile

import (
	"fmt"
	"strconv"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// observableRegistry maps attribute names and type names to their observable
// ids from the dictionary. Built once, shared across operations.
type observableRegistry struct {
	proto *Proto
	attrs map[string]int
	types map[string]int
	built bool
}

func newObservableRegistry(proto *Proto) *observableRegistry {
	return &observableRegistry{proto: proto}
}

func (r *observableRegistry) build() error {
	if r.built {
		return nil
	}
	r.attrs = make(map[string]int)
	r.types = make(map[string]int)

	file, err := r.proto.Get(record.FileDictionary)
	if err != nil {
		return fmt.Errorf("observable registry: %w", err)
	}
	dict, ok := file.Data.(*record.Dictionary)
	if !ok {
		return fmt.Errorf("%s is not a dictionary", record.FileDictionary)
	}

	for name, attr := range dict.Attributes {
		if attr.Observable != nil {
			r.attrs[name] = *attr.Observable
		}
	}
	if dict.Types != nil {
		for name, typ := range dict.Types.Attributes {
			if typ.Observable != nil {
				r.types[name] = *typ.Observable
			}
		}
	}

	r.built = true
	return nil
}

// MarkObservablesOp sets the observable id on attributes whose name, or
// failing that whose type, carries an observable id in the dictionary.
type MarkObservablesOp struct {
	operation
	registry *observableRegistry
}

func (op MarkObservablesOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	attrs := record.Attrs(target.Data)
	if attrs == nil {
		return nil, nil
	}

	if err := op.registry.build(); err != nil {
		return nil, err
	}

	var results []merge.Path
	for _, name := range sortedKeys(attrs) {
		attr := attrs[name]
		if id, ok := op.registry.attrs[name]; ok {
			attr.Observable = &id
		} else if attr.Type != nil {
			id, ok := op.registry.types[*attr.Type]
			if !ok {
				continue
			}
			attr.Observable = &id
		} else {
			continue
		}
		results = append(results, merge.Path{"attributes", name, "observable"})
	}
	return results, nil
}

// BuildObservableTypeOp folds one source of observable ids into the
// observable object's type_id enum. Sources are the dictionary, objects
// declaring a record-level observable, and object or event attributes with
// observable ids.
type BuildObservableTypeOp struct {
	operation
	registry *observableRegistry
}

func (op BuildObservableTypeOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	observable, ok := target.Data.(*record.Object)
	if !ok {
		return nil, fmt.Errorf("%s is not an object", op.target)
	}
	typeID, ok := observable.Attributes["type_id"]
	if !ok || typeID.Enum == nil {
		return nil, fmt.Errorf("%s has no type_id enum", op.target)
	}
	enum := typeID.Enum

	source, err := proto.Get(op.prereq)
	if err != nil {
		return nil, err
	}

	if op.prereq == record.FileDictionary {
		return op.applyDictionary(source, enum)
	}

	var results []merge.Path
	label := "Object"
	if _, ok := source.Data.(*record.Event); ok {
		label = "Event"
	}

	if obj, ok := source.Data.(*record.Object); ok && obj.Observable != nil {
		// The topmost ancestor declaring an observable owns the enum entry.
		owner, pth := obj, op.prereq
		for {
			base, err := proto.FindBase(pth)
			if err != nil || base == "" {
				break
			}
			pth = base
			baseFile, err := proto.Get(base)
			if err != nil {
				return nil, err
			}
			if baseObj, ok := baseFile.Data.(*record.Object); ok && baseObj.Observable != nil {
				owner = baseObj
			}
		}

		enumID := strconv.Itoa(*owner.Observable)
		if _, ok := enum[enumID]; !ok {
			desc := fmt.Sprintf("Observable by Object.<br>%s", str(owner.Description))
			enum[enumID] = &record.EnumMember{Caption: owner.Caption, Description: &desc}
			results = append(results, merge.Path{"attributes", "type_id", "enum", enumID})
		}
	}

	attrs := record.Attrs(source.Data)
	var caption string
	switch v := source.Data.(type) {
	case *record.Object:
		caption = str(v.Caption)
	case *record.Event:
		caption = str(v.Caption)
	}
	for _, name := range sortedKeys(attrs) {
		attr := attrs[name]
		if attr.Observable == nil {
			continue
		}
		enumID := strconv.Itoa(*attr.Observable)
		// Entries defined by the dictionary keep their captions.
		if _, ok := enum[enumID]; ok {
			continue
		}
		memberCaption := fmt.Sprintf("%s %s: %s", caption, label, name)
		desc := fmt.Sprintf("Observable by %s-Specific Attribute.<br>%s-specific attribute %q for the %s %s.",
			label, label, name, caption, label)
		enum[enumID] = &record.EnumMember{Caption: &memberCaption, Description: &desc}
		results = append(results, merge.Path{"attributes", "type_id", "enum", enumID})
	}
	return results, nil
}

func (op BuildObservableTypeOp) applyDictionary(source *record.File, enum map[string]*record.EnumMember) ([]merge.Path, error) {
	if err := op.registry.build(); err != nil {
		return nil, err
	}
	dict, ok := source.Data.(*record.Dictionary)
	if !ok {
		return nil, fmt.Errorf("%s is not a dictionary", op.prereq)
	}

	var results []merge.Path
	for _, name := range sortedKeys(op.registry.attrs) {
		enumID := strconv.Itoa(op.registry.attrs[name])
		attr := dict.Attributes[name]
		desc := fmt.Sprintf("Observable by Dictionary Attribute.<br>%s", str(attr.Description))
		enum[enumID] = &record.EnumMember{Caption: attr.Caption, Description: &desc}
		results = append(results, merge.Path{"attributes", "type_id", "enum", enumID})
	}
	for _, name := range sortedKeys(op.registry.types) {
		enumID := strconv.Itoa(op.registry.types[name])
		typ := dict.Types.Attributes[name]
		desc := fmt.Sprintf("Observable by Dictionary Type.<br>%s", str(typ.Description))
		enum[enumID] = &record.EnumMember{Caption: typ.Caption, Description: &desc}
		results = append(results, merge.Path{"attributes", "type_id", "enum", enumID})
	}
	return results, nil
}

// MarkObservablesPlanner marks observable ids on every attribute-bearing
// record.
type MarkObservablesPlanner struct {
	options  Options
	registry *observableRegistry
}

// NewMarkObservablesPlanner builds the planner and its shared registry.
func NewMarkObservablesPlanner(proto *Proto, options Options) *MarkObservablesPlanner {
	return &MarkObservablesPlanner{options: options, registry: newObservableRegistry(proto)}
}

func (p *MarkObservablesPlanner) Analyze(file *record.File) ([]Operation, error) {
	if !p.options.SetObservable || !record.HasAttrs(file.Data) {
		return nil, nil
	}
	return []Operation{MarkObservablesOp{operation: operation{target: file.Path}, registry: p.registry}}, nil
}

// BuildObservableTypesPlanner folds every observable source into the
// observable object's type_id enum. Skipped entirely when the repository
// has no observable object.
type BuildObservableTypesPlanner struct {
	proto    *Proto
	registry *observableRegistry
}

// NewBuildObservableTypesPlanner builds the planner and its shared registry.
func NewBuildObservableTypesPlanner(proto *Proto) *BuildObservableTypesPlanner {
	return &BuildObservableTypesPlanner{proto: proto, registry: newObservableRegistry(proto)}
}

func (p *BuildObservableTypesPlanner) Analyze(file *record.File) ([]Operation, error) {
	if !p.proto.Repo().Contains(record.FileObservable) {
		return nil, nil
	}

	switch file.Data.(type) {
	case *record.Object, *record.Event:
	default:
		if file.Path != record.FileDictionary {
			return nil, nil
		}
	}
	return []Operation{BuildObservableTypeOp{
		operation: operation{target: record.FileObservable, prereq: file.Path},
		registry:  p.registry,
	}}, nil
}
