package compare

import (
	"reflect"
	"slices"

	"github.com/seclattice/taxonomy/schema"
)

// scalar compares two comparable values.
func scalar[T comparable](old, new T) Difference[T] {
	if old == new {
		return NoChange[T]{}
	}
	return Change[T]{Before: old, After: new}
}

// ptr compares two optional scalars. Nil and a pointer to the zero value
// are distinct.
func ptr[T comparable](old, new *T) Difference[*T] {
	switch {
	case old == nil && new == nil:
		return NoChange[*T]{}
	case old != nil && new != nil && *old == *new:
		return NoChange[*T]{}
	default:
		return Change[*T]{Before: old, After: new}
	}
}

// slice compares two slices of comparable elements as single values.
func slice[S ~[]T, T comparable](old, new S) Difference[S] {
	if slices.Equal(old, new) {
		return NoChange[S]{}
	}
	return Change[S]{Before: old, After: new}
}

func anySlice(old, new []any) Difference[[]any] {
	if reflect.DeepEqual(old, new) {
		return NoChange[[]any]{}
	}
	return Change[[]any]{Before: old, After: new}
}

// Dict compares two maps over the union of their keys. Keys present in only
// one operand yield Addition or Removal; keys in both yield NoChange for
// equal values and otherwise recurse via cmp. A nil result means both
// operands were absent.
func Dict[T any](old, new map[string]T, cmp func(T, T) Difference[T]) map[string]Difference[T] {
	if old == nil && new == nil {
		return nil
	}

	out := make(map[string]Difference[T], max(len(old), len(new)))
	for key, before := range old {
		after, ok := new[key]
		switch {
		case !ok:
			out[key] = Removal[T]{Before: before}
		case reflect.DeepEqual(before, after):
			out[key] = NoChange[T]{}
		default:
			out[key] = cmp(before, after)
		}
	}
	for key, after := range new {
		if _, ok := old[key]; !ok {
			out[key] = Addition[T]{After: after}
		}
	}
	return out
}

func listDict(old, new map[string][]string) map[string]Difference[[]string] {
	return Dict(old, new, slice[[]string, string])
}

// Deprecations compares two deprecation notices.
func Deprecations(old, new *schema.DeprecationInfo) Difference[*schema.DeprecationInfo] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedDeprecationInfo{
		Message: scalar(old.Message, new.Message),
		Since:   scalar(old.Since, new.Since),
	}
}

// EnumMembers compares two enum members.
func EnumMembers(old, new *schema.EnumMember) Difference[*schema.EnumMember] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedEnumMember{
		Caption:     scalar(old.Caption, new.Caption),
		Description: ptr(old.Description, new.Description),
		Notes:       ptr(old.Notes, new.Notes),
	}
}

// Types compares two data type definitions.
func Types(old, new *schema.Type) Difference[*schema.Type] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedType{
		Caption:     scalar(old.Caption, new.Caption),
		Description: ptr(old.Description, new.Description),
		IsArray:     scalar(old.IsArray, new.IsArray),
		Deprecated:  Deprecations(old.Deprecated, new.Deprecated),
		MaxLen:      ptr(old.MaxLen, new.MaxLen),
		Observable:  ptr(old.Observable, new.Observable),
		Range:       slice(old.Range, new.Range),
		Regex:       ptr(old.Regex, new.Regex),
		Type:        ptr(old.Type, new.Type),
		TypeName:    ptr(old.TypeName, new.TypeName),
		Values:      anySlice(old.Values, new.Values),
	}
}

// Attrs compares two attributes.
func Attrs(old, new *schema.Attr) Difference[*schema.Attr] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedAttr{
		Caption:     scalar(old.Caption, new.Caption),
		Requirement: scalar(old.Requirement, new.Requirement),
		Type:        scalar(old.Type, new.Type),
		Description: ptr(old.Description, new.Description),
		IsArray:     scalar(old.IsArray, new.IsArray),
		Deprecated:  Deprecations(old.Deprecated, new.Deprecated),
		Enum:        Dict(old.Enum, new.Enum, EnumMembers),
		Group:       ptr(old.Group, new.Group),
		Observable:  ptr(old.Observable, new.Observable),
		Profile:     slice(old.Profile, new.Profile),
		Sibling:     ptr(old.Sibling, new.Sibling),
		ObjectType:  ptr(old.ObjectType, new.ObjectType),
		ObjectName:  ptr(old.ObjectName, new.ObjectName),
	}
}

// Objects compares two objects.
func Objects(old, new *schema.Object) Difference[*schema.Object] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedObject{
		Caption:     scalar(old.Caption, new.Caption),
		Name:        scalar(old.Name, new.Name),
		Description: ptr(old.Description, new.Description),
		Attributes:  Dict(old.Attributes, new.Attributes, Attrs),
		Extends:     ptr(old.Extends, new.Extends),
		Observable:  ptr(old.Observable, new.Observable),
		Profiles:    slice(old.Profiles, new.Profiles),
		Constraints: listDict(old.Constraints, new.Constraints),
		Deprecated:  Deprecations(old.Deprecated, new.Deprecated),
	}
}

// Events compares two event classes.
func Events(old, new *schema.Event) Difference[*schema.Event] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedEvent{
		Caption:      scalar(old.Caption, new.Caption),
		Name:         scalar(old.Name, new.Name),
		Attributes:   Dict(old.Attributes, new.Attributes, Attrs),
		Description:  ptr(old.Description, new.Description),
		UID:          ptr(old.UID, new.UID),
		Category:     ptr(old.Category, new.Category),
		Extends:      ptr(old.Extends, new.Extends),
		Profiles:     slice(old.Profiles, new.Profiles),
		Associations: listDict(old.Associations, new.Associations),
		Constraints:  listDict(old.Constraints, new.Constraints),
		Deprecated:   Deprecations(old.Deprecated, new.Deprecated),
	}
}

// Profiles compares two profiles.
func Profiles(old, new *schema.Profile) Difference[*schema.Profile] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedProfile{
		Caption:     scalar(old.Caption, new.Caption),
		Name:        scalar(old.Name, new.Name),
		Meta:        ptr(old.Meta, new.Meta),
		Description: ptr(old.Description, new.Description),
		Attributes:  Dict(old.Attributes, new.Attributes, Attrs),
		Deprecated:  Deprecations(old.Deprecated, new.Deprecated),
	}
}

// Extensions compares two extension descriptors.
func Extensions(old, new *schema.Extension) Difference[*schema.Extension] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedExtension{
		Name:        scalar(old.Name, new.Name),
		UID:         scalar(old.UID, new.UID),
		Caption:     scalar(old.Caption, new.Caption),
		Version:     ptr(old.Version, new.Version),
		Description: ptr(old.Description, new.Description),
		Deprecated:  Deprecations(old.Deprecated, new.Deprecated),
	}
}

// Categories compares two categories, including their class listings.
func Categories(old, new *schema.Category) Difference[*schema.Category] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedCategory{
		Caption:     scalar(old.Caption, new.Caption),
		Name:        scalar(old.Name, new.Name),
		Description: ptr(old.Description, new.Description),
		UID:         ptr(old.UID, new.UID),
		Type:        ptr(old.Type, new.Type),
		Classes:     Dict(old.Classes, new.Classes, Events),
	}
}

// Diff compares two resolved schemas and returns the full diff tree.
func Diff(old, new *schema.Schema) Difference[*schema.Schema] {
	if eq, diff := prepare(old, new); diff != nil || eq {
		return orNoChange(eq, diff)
	}
	return &ChangedSchema{
		Version:    scalar(old.Version, new.Version),
		Classes:    Dict(old.Classes, new.Classes, Events),
		Objects:    Dict(old.Objects, new.Objects, Objects),
		Types:      Dict(old.Types, new.Types, Types),
		BaseEvent:  Events(old.BaseEvent, new.BaseEvent),
		Profiles:   Dict(old.Profiles, new.Profiles, Profiles),
		Extensions: Dict(old.Extensions, new.Extensions, Extensions),
		Categories: Dict(old.Categories, new.Categories, Categories),
	}
}

// prepare handles the shared nil and equality cases of the record
// comparators: equal operands (including both nil) report eq, a one-sided
// nil reports a whole-value change.
func prepare[T any](old, new *T) (eq bool, diff Difference[*T]) {
	switch {
	case old == nil && new == nil:
		return true, nil
	case old == nil || new == nil:
		return false, Change[*T]{Before: old, After: new}
	case reflect.DeepEqual(old, new):
		return true, nil
	default:
		return false, nil
	}
}

func orNoChange[T any](eq bool, diff Difference[*T]) Difference[*T] {
	if eq {
		return NoChange[*T]{}
	}
	return diff
}
