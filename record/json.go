package record

import (
	"encoding/json"
	"fmt"
)

// IncludeKey is the directive key used to splice another record's attributes
// into an attribute map.
const IncludeKey = "$include"

// FlexStrings decodes a JSON value that may be either a single string or an
// array of strings. A single element marshals back to the scalar form.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexStrings{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*f = FlexStrings(list)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexStrings) MarshalJSON() ([]byte, error) {
	if len(f) == 1 {
		return json.Marshal(f[0])
	}
	return json.Marshal([]string(f))
}

// decodeAttrs decodes an attribute map, lifting a $include key out of the
// map into the returned directive list.
func decodeAttrs(raw json.RawMessage) (map[string]*Attr, FlexStrings, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, fmt.Errorf("decode attributes: %w", err)
	}

	var includes FlexStrings
	attrs := make(map[string]*Attr, len(entries))
	for name, entry := range entries {
		if name == IncludeKey {
			if err := json.Unmarshal(entry, &includes); err != nil {
				return nil, nil, fmt.Errorf("decode attributes %s: %w", IncludeKey, err)
			}
			continue
		}
		attr := &Attr{}
		if err := json.Unmarshal(entry, attr); err != nil {
			return nil, nil, fmt.Errorf("decode attribute %q: %w", name, err)
		}
		attrs[name] = attr
	}
	return attrs, includes, nil
}

type objectAlias Object

// UnmarshalJSON lifts attribute-level $include directives out of the
// attribute map.
func (o *Object) UnmarshalJSON(data []byte) error {
	var shadow struct {
		objectAlias
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	attrs, includes, err := decodeAttrs(shadow.Attributes)
	if err != nil {
		return err
	}
	*o = Object(shadow.objectAlias)
	o.Attributes = attrs
	o.AttrIncludes = includes
	return nil
}

type eventAlias Event

// UnmarshalJSON lifts attribute-level $include directives out of the
// attribute map.
func (e *Event) UnmarshalJSON(data []byte) error {
	var shadow struct {
		eventAlias
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	attrs, includes, err := decodeAttrs(shadow.Attributes)
	if err != nil {
		return err
	}
	*e = Event(shadow.eventAlias)
	e.Attributes = attrs
	e.AttrIncludes = includes
	return nil
}

type profileAlias Profile

// UnmarshalJSON lifts attribute-level $include directives out of the
// attribute map.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var shadow struct {
		profileAlias
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	attrs, includes, err := decodeAttrs(shadow.Attributes)
	if err != nil {
		return err
	}
	*p = Profile(shadow.profileAlias)
	p.Attributes = attrs
	p.AttrIncludes = includes
	return nil
}

type includeAlias Include

// UnmarshalJSON lifts attribute-level $include directives out of the
// attribute map.
func (i *Include) UnmarshalJSON(data []byte) error {
	var shadow struct {
		includeAlias
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	attrs, includes, err := decodeAttrs(shadow.Attributes)
	if err != nil {
		return err
	}
	*i = Include(shadow.includeAlias)
	i.Attributes = attrs
	i.AttrIncludes = includes
	return nil
}

type dictionaryAlias Dictionary

// UnmarshalJSON lifts attribute-level $include directives out of the
// attribute map.
func (d *Dictionary) UnmarshalJSON(data []byte) error {
	var shadow struct {
		dictionaryAlias
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	attrs, includes, err := decodeAttrs(shadow.Attributes)
	if err != nil {
		return err
	}
	*d = Dictionary(shadow.dictionaryAlias)
	d.Attributes = attrs
	d.AttrIncludes = includes
	return nil
}

// Decode parses the JSON fragment expected at the given repository path.
func Decode(path string, data []byte) (Definition, error) {
	defn, err := DefinitionType(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, defn); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return defn, nil
}
