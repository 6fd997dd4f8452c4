// Package schema defines the fully resolved taxonomy schema as produced by
// the compiler and by schema server exports.
//
// Unlike the record package, required fields are plain values here: a
// resolved attribute always has a caption, a requirement, and a type.
// Optional fields remain pointers so that absent and zero stay distinct for
// diffing.
package schema

import "github.com/seclattice/taxonomy/record"

// DeprecationInfo describes the deprecation of a schema element.
type DeprecationInfo struct {
	Message string `json:"message"`
	Since   string `json:"since"`
}

// EnumMember is one member of an attribute enum.
type EnumMember struct {
	Caption     string  `json:"caption"`
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Type is a resolved data type definition.
type Type struct {
	Caption     string           `json:"caption"`
	Description *string          `json:"description,omitempty"`
	IsArray     bool             `json:"is_array,omitempty"`
	Deprecated  *DeprecationInfo `json:"@deprecated,omitempty"`
	MaxLen      *int             `json:"max_len,omitempty"`
	Observable  *int             `json:"observable,omitempty"`
	Range       []int            `json:"range,omitempty"`
	Regex       *string          `json:"regex,omitempty"`
	Type        *string          `json:"type,omitempty"`
	TypeName    *string          `json:"type_name,omitempty"`
	Values      []any            `json:"values,omitempty"`
}

// Attr is a resolved attribute definition.
type Attr struct {
	Caption     string                 `json:"caption"`
	Requirement string                 `json:"requirement"`
	Type        string                 `json:"type"`
	Description *string                `json:"description,omitempty"`
	IsArray     bool                   `json:"is_array,omitempty"`
	Deprecated  *DeprecationInfo       `json:"@deprecated,omitempty"`
	Enum        map[string]*EnumMember `json:"enum,omitempty"`
	Group       *string                `json:"group,omitempty"`
	Observable  *int                   `json:"observable,omitempty"`
	Profile     record.FlexStrings     `json:"profile,omitempty"`
	Sibling     *string                `json:"sibling,omitempty"`
	ObjectType  *string                `json:"object_type,omitempty"`
	ObjectName  *string                `json:"object_name,omitempty"`
}

// Object is a resolved object definition.
type Object struct {
	Caption     string              `json:"caption"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Attributes  map[string]*Attr    `json:"attributes"`
	Extends     *string             `json:"extends,omitempty"`
	Observable  *int                `json:"observable,omitempty"`
	Profiles    []string            `json:"profiles,omitempty"`
	Constraints map[string][]string `json:"constraints,omitempty"`
	Deprecated  *DeprecationInfo    `json:"@deprecated,omitempty"`
}

// Event is a resolved event class definition.
type Event struct {
	Caption      string              `json:"caption"`
	Name         string              `json:"name"`
	Attributes   map[string]*Attr    `json:"attributes,omitempty"`
	Description  *string             `json:"description,omitempty"`
	UID          *int                `json:"uid,omitempty"`
	Category     *string             `json:"category,omitempty"`
	Extends      *string             `json:"extends,omitempty"`
	Profiles     []string            `json:"profiles,omitempty"`
	Associations map[string][]string `json:"associations,omitempty"`
	Constraints  map[string][]string `json:"constraints,omitempty"`
	Deprecated   *DeprecationInfo    `json:"@deprecated,omitempty"`
}

// Profile is a resolved profile definition.
type Profile struct {
	Caption     string           `json:"caption"`
	Name        string           `json:"name"`
	Meta        *string          `json:"meta,omitempty"`
	Description *string          `json:"description,omitempty"`
	Attributes  map[string]*Attr `json:"attributes,omitempty"`
	Deprecated  *DeprecationInfo `json:"@deprecated,omitempty"`
}

// Extension describes one extension that contributed to a compiled schema.
type Extension struct {
	Name        string           `json:"name"`
	UID         int              `json:"uid"`
	Caption     string           `json:"caption"`
	Version     *string          `json:"version,omitempty"`
	Description *string          `json:"description,omitempty"`
	Deprecated  *DeprecationInfo `json:"@deprecated,omitempty"`
}

// Category is a resolved event category, including the classes assigned to
// it during compilation. Class entries never carry attributes.
type Category struct {
	Caption     string            `json:"caption"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	UID         *int              `json:"uid,omitempty"`
	Type        *string           `json:"type,omitempty"`
	Classes     map[string]*Event `json:"classes,omitempty"`
}

// Version is a bare schema version document.
type Version struct {
	Version string `json:"version"`
}

// Schema is a fully resolved taxonomy schema.
type Schema struct {
	Version    string                `json:"version"`
	Classes    map[string]*Event     `json:"classes"`
	Objects    map[string]*Object    `json:"objects"`
	Types      map[string]*Type      `json:"types,omitempty"`
	BaseEvent  *Event                `json:"base_event,omitempty"`
	Profiles   map[string]*Profile   `json:"profiles,omitempty"`
	Extensions map[string]*Extension `json:"extensions,omitempty"`
	Categories map[string]*Category  `json:"categories,omitempty"`
}
