package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// DecodeOption configures schema decoding.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	rawObjectTypes bool
}

// WithRawObjectTypes keeps object-valued attribute types as the generic
// object marker instead of resolving them to the referenced object name.
func WithRawObjectTypes() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.rawObjectTypes = true
	}
}

// FromJSON parses a resolved schema from its JSON form. By default,
// attributes whose type is the generic object marker are rewritten to the
// name of the object they reference.
func FromJSON(data []byte, opts ...DecodeOption) (*Schema, error) {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if !cfg.rawObjectTypes {
		ResolveObjectTypes(&s)
	}
	return &s, nil
}

// ToJSON serializes a resolved schema.
func ToJSON(s *Schema) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return data, nil
}

// FromFile parses a resolved schema from a JSON file.
func FromFile(path string, opts ...DecodeOption) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	s, err := FromJSON(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return s, nil
}

// ToFile writes a resolved schema to a JSON file.
func ToFile(s *Schema, path string) error {
	data, err := ToJSON(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schema %s: %w", path, err)
	}
	return nil
}

// ObjectMarker is the attribute type of object-valued attributes before
// resolution.
const ObjectMarker = "object_t"

// ResolveObjectTypes rewrites object-valued attribute types across classes,
// objects, and profiles to the referenced object's dictionary name.
func ResolveObjectTypes(s *Schema) {
	for _, event := range s.Classes {
		resolveAttrTypes(event.Attributes)
	}
	for _, object := range s.Objects {
		resolveAttrTypes(object.Attributes)
	}
	for _, profile := range s.Profiles {
		resolveAttrTypes(profile.Attributes)
	}
	if s.BaseEvent != nil {
		resolveAttrTypes(s.BaseEvent.Attributes)
	}
}

func resolveAttrTypes(attrs map[string]*Attr) {
	for _, attr := range attrs {
		if attr.Type == ObjectMarker && attr.ObjectType != nil {
			attr.Type = *attr.ObjectType
		}
	}
}
