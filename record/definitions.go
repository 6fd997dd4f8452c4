// Package record models the source fragments of an event-taxonomy
// repository: objects, events, profiles, extensions, the attribute
// dictionary, category lists, and version markers.
//
// Every optional scalar field is a pointer; absent maps and slices are nil.
// The compiler relies on this to distinguish "unset" from zero values when
// merging fragments.
package record

// Part is implemented by every definition and nested definition fragment.
// The structural merge algorithm operates on Part values.
type Part interface {
	part()
}

// Definition is implemented by the closed set of top-level fragment variants.
type Definition interface {
	Part
	definition()
}

// DeprecationInfo describes the deprecation of an object, event, or attribute.
type DeprecationInfo struct {
	Message *string `json:"message,omitempty"`
	Since   *string `json:"since,omitempty"`
}

func (*DeprecationInfo) part() {}

// EnumMember is one member of an attribute enum. Enums are maps of
// member key to EnumMember.
type EnumMember struct {
	Caption     *string `json:"caption,omitempty"`
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (*EnumMember) part() {}

// Type is a data type definition from the dictionary's types section.
type Type struct {
	Caption     *string          `json:"caption,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsArray     *bool            `json:"is_array,omitempty"`
	Deprecated  *DeprecationInfo `json:"@deprecated,omitempty"`
	MaxLen      *int             `json:"max_len,omitempty"`
	Observable  *int             `json:"observable,omitempty"`
	Range       []int            `json:"range,omitempty"`
	Regex       *string          `json:"regex,omitempty"`
	Type        *string          `json:"type,omitempty"`
	TypeName    *string          `json:"type_name,omitempty"`
	Values      []any            `json:"values,omitempty"`
}

func (*Type) part() {}

// Attr is an attribute definition.
type Attr struct {
	Caption     *string                `json:"caption,omitempty"`
	Requirement *string                `json:"requirement,omitempty"`
	Type        *string                `json:"type,omitempty"`
	Description *string                `json:"description,omitempty"`
	IsArray     *bool                  `json:"is_array,omitempty"`
	Deprecated  *DeprecationInfo       `json:"@deprecated,omitempty"`
	Enum        map[string]*EnumMember `json:"enum,omitempty"`
	Group       *string                `json:"group,omitempty"`
	Observable  *int                   `json:"observable,omitempty"`
	Profile     FlexStrings            `json:"profile,omitempty"`
	Sibling     *string                `json:"sibling,omitempty"`
	ObjectType  *string                `json:"object_type,omitempty"`
	ObjectName  *string                `json:"object_name,omitempty"`
}

func (*Attr) part() {}

// DictionaryTypes is the types section of the dictionary.
type DictionaryTypes struct {
	Attributes  map[string]*Type `json:"attributes,omitempty"`
	Caption     *string          `json:"caption,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (*DictionaryTypes) part() {}

// Dictionary is the central attribute dictionary (dictionary.json).
type Dictionary struct {
	Name         *string          `json:"name,omitempty"`
	Caption      *string          `json:"caption,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Attributes   map[string]*Attr `json:"attributes,omitempty"`
	Types        *DictionaryTypes `json:"types,omitempty"`
	AttrIncludes FlexStrings      `json:"-"`
}

func (*Dictionary) part()       {}
func (*Dictionary) definition() {}

// Object is an object definition.
type Object struct {
	Caption      *string             `json:"caption,omitempty"`
	Name         *string             `json:"name,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Attributes   map[string]*Attr    `json:"attributes,omitempty"`
	Extends      *string             `json:"extends,omitempty"`
	Observable   *int                `json:"observable,omitempty"`
	Profiles     []string            `json:"profiles,omitempty"`
	Constraints  map[string][]string `json:"constraints,omitempty"`
	Deprecated   *DeprecationInfo    `json:"@deprecated,omitempty"`
	Include      FlexStrings         `json:"$include,omitempty"`
	SrcExtension *string             `json:"src_extension,omitempty"`
	Key          *string             `json:"key,omitempty"`
	AttrIncludes FlexStrings         `json:"-"`
}

func (*Object) part()       {}
func (*Object) definition() {}

// Event is an event class definition.
type Event struct {
	Caption      *string             `json:"caption,omitempty"`
	Name         *string             `json:"name,omitempty"`
	Attributes   map[string]*Attr    `json:"attributes,omitempty"`
	Description  *string             `json:"description,omitempty"`
	UID          *int                `json:"uid,omitempty"`
	Category     *string             `json:"category,omitempty"`
	Extends      *string             `json:"extends,omitempty"`
	Profiles     []string            `json:"profiles,omitempty"`
	Associations map[string][]string `json:"associations,omitempty"`
	Constraints  map[string][]string `json:"constraints,omitempty"`
	Deprecated   *DeprecationInfo    `json:"@deprecated,omitempty"`
	Include      FlexStrings         `json:"$include,omitempty"`
	SrcExtension *string             `json:"src_extension,omitempty"`
	Key          *string             `json:"key,omitempty"`
	AttrIncludes FlexStrings         `json:"-"`
}

func (*Event) part()       {}
func (*Event) definition() {}

// Include is a reusable attribute bundle spliced into other records via
// the $include directive.
type Include struct {
	Caption      *string          `json:"caption,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Attributes   map[string]*Attr `json:"attributes,omitempty"`
	Annotations  *Attr            `json:"annotations,omitempty"`
	AttrIncludes FlexStrings      `json:"-"`
}

func (*Include) part()       {}
func (*Include) definition() {}

// Profile is an optional named bundle of attributes applicable to objects
// and events.
type Profile struct {
	Caption      *string          `json:"caption,omitempty"`
	Name         *string          `json:"name,omitempty"`
	Meta         *string          `json:"meta,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Attributes   map[string]*Attr `json:"attributes,omitempty"`
	Deprecated   *DeprecationInfo `json:"@deprecated,omitempty"`
	Annotations  *Attr            `json:"annotations,omitempty"`
	SrcExtension *string          `json:"src_extension,omitempty"`
	Key          *string          `json:"key,omitempty"`
	AttrIncludes FlexStrings      `json:"-"`
}

func (*Profile) part()       {}
func (*Profile) definition() {}

// Extension is the extension.json marker of an extension directory.
type Extension struct {
	Name        *string          `json:"name,omitempty"`
	UID         *int             `json:"uid,omitempty"`
	Caption     *string          `json:"caption,omitempty"`
	Version     *string          `json:"version,omitempty"`
	Description *string          `json:"description,omitempty"`
	Deprecated  *DeprecationInfo `json:"@deprecated,omitempty"`
}

func (*Extension) part()       {}
func (*Extension) definition() {}

// Category is one category definition inside categories.json. Classes is
// populated during compilation with the events assigned to the category.
type Category struct {
	Caption     *string           `json:"caption,omitempty"`
	Description *string           `json:"description,omitempty"`
	UID         *int              `json:"uid,omitempty"`
	Type        *string           `json:"type,omitempty"`
	Classes     map[string]*Event `json:"classes,omitempty"`
}

func (*Category) part() {}

// Categories is the category list (categories.json).
type Categories struct {
	Attributes  map[string]*Category `json:"attributes,omitempty"`
	Caption     *string              `json:"caption,omitempty"`
	Description *string              `json:"description,omitempty"`
	Name        *string              `json:"name,omitempty"`
}

func (*Categories) part()       {}
func (*Categories) definition() {}

// Version is the repository version marker (version.json).
type Version struct {
	Version *string `json:"version,omitempty"`
}

func (*Version) part()       {}
func (*Version) definition() {}

// Key returns the schema key for a definition: the explicit key when one has
// been assigned (extension-prefixed records), otherwise the record name.
// It returns nil for definitions without a name.
func Key(d Definition) *string {
	switch v := d.(type) {
	case *Object:
		if v.Key != nil {
			return v.Key
		}
		return v.Name
	case *Event:
		if v.Key != nil {
			return v.Key
		}
		return v.Name
	case *Profile:
		if v.Key != nil {
			return v.Key
		}
		return v.Name
	case *Extension:
		return v.Name
	default:
		return nil
	}
}

// Name returns the declared name of a definition, or nil when the variant
// has no name field.
func Name(d Definition) *string {
	switch v := d.(type) {
	case *Object:
		return v.Name
	case *Event:
		return v.Name
	case *Profile:
		return v.Name
	case *Extension:
		return v.Name
	case *Dictionary:
		return v.Name
	case *Categories:
		return v.Name
	default:
		return nil
	}
}

// Attrs returns the attribute map of a definition, or nil when the variant
// carries no attributes.
func Attrs(d Definition) map[string]*Attr {
	switch v := d.(type) {
	case *Object:
		return v.Attributes
	case *Event:
		return v.Attributes
	case *Profile:
		return v.Attributes
	case *Dictionary:
		return v.Attributes
	case *Include:
		return v.Attributes
	default:
		return nil
	}
}

// SetAttrs replaces the attribute map of an attribute-bearing definition.
// It reports whether the definition carries attributes at all.
func SetAttrs(d Definition, attrs map[string]*Attr) bool {
	switch v := d.(type) {
	case *Object:
		v.Attributes = attrs
	case *Event:
		v.Attributes = attrs
	case *Profile:
		v.Attributes = attrs
	case *Dictionary:
		v.Attributes = attrs
	case *Include:
		v.Attributes = attrs
	default:
		return false
	}
	return true
}

// HasAttrs reports whether the definition variant carries an attribute map.
func HasAttrs(d Definition) bool {
	switch d.(type) {
	case *Object, *Event, *Profile, *Dictionary, *Include:
		return true
	default:
		return false
	}
}

// Annotations returns the annotations of a definition, or nil when the
// variant does not support them.
func Annotations(d Definition) *Attr {
	switch v := d.(type) {
	case *Profile:
		return v.Annotations
	case *Include:
		return v.Annotations
	default:
		return nil
	}
}

// AttrIncludes returns pending attribute-level $include directives.
func AttrIncludes(d Definition) FlexStrings {
	switch v := d.(type) {
	case *Object:
		return v.AttrIncludes
	case *Event:
		return v.AttrIncludes
	case *Profile:
		return v.AttrIncludes
	case *Dictionary:
		return v.AttrIncludes
	case *Include:
		return v.AttrIncludes
	default:
		return nil
	}
}

// ClearAttrIncludes drops consumed attribute-level $include directives.
func ClearAttrIncludes(d Definition) {
	switch v := d.(type) {
	case *Object:
		v.AttrIncludes = nil
	case *Event:
		v.AttrIncludes = nil
	case *Profile:
		v.AttrIncludes = nil
	case *Dictionary:
		v.AttrIncludes = nil
	case *Include:
		v.AttrIncludes = nil
	}
}

// SetSrcExtension tags a definition with the extension that introduced it.
// It reports whether the variant supports extension tagging.
func SetSrcExtension(d Definition, name string) bool {
	switch v := d.(type) {
	case *Object:
		v.SrcExtension = &name
	case *Event:
		v.SrcExtension = &name
	case *Profile:
		v.SrcExtension = &name
	default:
		return false
	}
	return true
}

// SrcExtension returns the extension that introduced a definition, or nil.
func SrcExtension(d Definition) *string {
	switch v := d.(type) {
	case *Object:
		return v.SrcExtension
	case *Event:
		return v.SrcExtension
	case *Profile:
		return v.SrcExtension
	default:
		return nil
	}
}

// SetKey assigns an explicit schema key to a definition. It reports whether
// the variant supports keys.
func SetKey(d Definition, key string) bool {
	switch v := d.(type) {
	case *Object:
		v.Key = &key
	case *Event:
		v.Key = &key
	case *Profile:
		v.Key = &key
	default:
		return false
	}
	return true
}
