package compile

import (
	"fmt"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// DictionaryOp backfills a record's declared attributes from the dictionary.
// Each attribute is merged on its own so enum members defined in the
// dictionary reach the record, which a whole-file merge limited to the
// attributes section would not allow.
type DictionaryOp struct {
	operation
}

func (op DictionaryOp) Apply(proto *Proto) ([]merge.Path, error) {
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
	dict, ok := source.Data.(*record.Dictionary)
	if !ok {
		return nil, fmt.Errorf("%s is not a dictionary", op.prereq)
	}
	if dict.Attributes == nil {
		return nil, nil
	}

	var results []merge.Path
	for _, name := range sortedKeys(attrs) {
		right, ok := dict.Attributes[name]
		if !ok {
			continue
		}
		for _, p := range merge.Records(attrs[name], right, merge.Options{}) {
			results = append(results, prepend(p, "attributes", name))
		}
	}
	return results, nil
}

// DictionaryPlanner backfills every attribute-bearing record from the
// dictionary.
type DictionaryPlanner struct{}

func (DictionaryPlanner) Analyze(file *record.File) ([]Operation, error) {
	if !record.HasAttrs(file.Data) {
		return nil, nil
	}
	return []Operation{DictionaryOp{operation{target: file.Path, prereq: record.FileDictionary}}}, nil
}

// DateTimeOp adds an "_dt" sibling for every timestamp attribute, typed
// datetime_t and carried by the datetime profile.
type DateTimeOp struct {
	operation
}

func (op DateTimeOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	attrs := record.Attrs(target.Data)
	if attrs == nil {
		return nil, nil
	}

	var results []merge.Path
	for _, name := range sortedKeys(attrs) {
		attr := attrs[name]
		if attr.Type == nil || *attr.Type != "timestamp_t" {
			continue
		}
		dt := merge.Copy(attr)
		dtType := "datetime_t"
		requirement := "optional"
		dt.Type = &dtType
		dt.Profile = record.FlexStrings{"datetime"}
		dt.Requirement = &requirement
		attrs[name+"_dt"] = dt
		results = append(results, merge.Path{"attributes", name + "_dt"})
	}
	return results, nil
}

// DateTimePlanner adds datetime siblings when the datetime profile is
// enabled.
type DateTimePlanner struct {
	options Options
}

func (p DateTimePlanner) Analyze(file *record.File) ([]Operation, error) {
	if !p.options.ProfileEnabled("datetime") {
		return nil, nil
	}
	if !record.HasAttrs(file.Data) {
		return nil, nil
	}
	return []Operation{DateTimeOp{operation{target: file.Path}}}, nil
}
