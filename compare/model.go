// Package compare computes typed structural diffs between two resolved
// schemas.
//
// A Difference is one of NoChange, Addition, Removal, Change, or a typed
// Changed node mirroring one schema record type. Dictionary-valued fields
// diff into a map over the union of both key sets. The diff tree is shape
// isomorphic to the schema's own type graph: every field of a schema record
// has exactly one corresponding diff field.
package compare

import (
	"github.com/seclattice/taxonomy/record"
	"github.com/seclattice/taxonomy/schema"
)

// Difference is the result of comparing two values of type T.
type Difference[T any] interface {
	isDifference(T)
}

// NoChange reports that two values are equal.
type NoChange[T any] struct{}

func (NoChange[T]) isDifference(T) {}

// Addition reports a key present only in the new operand.
type Addition[T any] struct {
	After T
}

func (Addition[T]) isDifference(T) {}

// Removal reports a key present only in the old operand.
type Removal[T any] struct {
	Before T
}

func (Removal[T]) isDifference(T) {}

// Change reports a changed scalar value.
type Change[T any] struct {
	Before T
	After  T
}

func (Change[T]) isDifference(T) {}

// Op classifies a leaf difference for rendering.
type Op int

const (
	OpNone Op = iota
	OpAdd
	OpRemove
	OpChange
)

// Delta is the non-generic view of a leaf difference, used by formatters
// and validation rules that walk a diff tree without knowing its element
// types.
type Delta interface {
	Delta() (op Op, before, after any)
}

func (NoChange[T]) Delta() (Op, any, any) { return OpNone, nil, nil }
func (a Addition[T]) Delta() (Op, any, any) {
	return OpAdd, nil, a.After
}
func (r Removal[T]) Delta() (Op, any, any) {
	return OpRemove, r.Before, nil
}
func (c Change[T]) Delta() (Op, any, any) {
	return OpChange, c.Before, c.After
}

// node marks the typed Changed record variants for formatters.
type node struct{}

// Node is implemented by every typed Changed record variant.
type Node interface {
	changedNode()
}

func (node) changedNode() {}

// ChangedDeprecationInfo is the diff of two deprecation notices.
type ChangedDeprecationInfo struct {
	node
	Message Difference[string]
	Since   Difference[string]
}

func (*ChangedDeprecationInfo) isDifference(*schema.DeprecationInfo) {}

// ChangedEnumMember is the diff of two enum members.
type ChangedEnumMember struct {
	node
	Caption     Difference[string]
	Description Difference[*string]
	Notes       Difference[*string]
}

func (*ChangedEnumMember) isDifference(*schema.EnumMember) {}

// ChangedType is the diff of two data type definitions.
type ChangedType struct {
	node
	Caption     Difference[string]
	Description Difference[*string]
	IsArray     Difference[bool]
	Deprecated  Difference[*schema.DeprecationInfo]
	MaxLen      Difference[*int]
	Observable  Difference[*int]
	Range       Difference[[]int]
	Regex       Difference[*string]
	Type        Difference[*string]
	TypeName    Difference[*string]
	Values      Difference[[]any]
}

func (*ChangedType) isDifference(*schema.Type) {}

// ChangedAttr is the diff of two attributes.
type ChangedAttr struct {
	node
	Caption     Difference[string]
	Requirement Difference[string]
	Type        Difference[string]
	Description Difference[*string]
	IsArray     Difference[bool]
	Deprecated  Difference[*schema.DeprecationInfo]
	Enum        map[string]Difference[*schema.EnumMember]
	Group       Difference[*string]
	Observable  Difference[*int]
	Profile     Difference[record.FlexStrings]
	Sibling     Difference[*string]
	ObjectType  Difference[*string]
	ObjectName  Difference[*string]
}

func (*ChangedAttr) isDifference(*schema.Attr) {}

// ChangedObject is the diff of two objects.
type ChangedObject struct {
	node
	Caption     Difference[string]
	Name        Difference[string]
	Description Difference[*string]
	Attributes  map[string]Difference[*schema.Attr]
	Extends     Difference[*string]
	Observable  Difference[*int]
	Profiles    Difference[[]string]
	Constraints map[string]Difference[[]string]
	Deprecated  Difference[*schema.DeprecationInfo]
}

func (*ChangedObject) isDifference(*schema.Object) {}

// ChangedEvent is the diff of two event classes.
type ChangedEvent struct {
	node
	Caption      Difference[string]
	Name         Difference[string]
	Attributes   map[string]Difference[*schema.Attr]
	Description  Difference[*string]
	UID          Difference[*int]
	Category     Difference[*string]
	Extends      Difference[*string]
	Profiles     Difference[[]string]
	Associations map[string]Difference[[]string]
	Constraints  map[string]Difference[[]string]
	Deprecated   Difference[*schema.DeprecationInfo]
}

func (*ChangedEvent) isDifference(*schema.Event) {}

// ChangedProfile is the diff of two profiles.
type ChangedProfile struct {
	node
	Caption     Difference[string]
	Name        Difference[string]
	Meta        Difference[*string]
	Description Difference[*string]
	Attributes  map[string]Difference[*schema.Attr]
	Deprecated  Difference[*schema.DeprecationInfo]
}

func (*ChangedProfile) isDifference(*schema.Profile) {}

// ChangedExtension is the diff of two extension descriptors.
type ChangedExtension struct {
	node
	Name        Difference[string]
	UID         Difference[int]
	Caption     Difference[string]
	Version     Difference[*string]
	Description Difference[*string]
	Deprecated  Difference[*schema.DeprecationInfo]
}

func (*ChangedExtension) isDifference(*schema.Extension) {}

// ChangedCategory is the diff of two categories.
type ChangedCategory struct {
	node
	Caption     Difference[string]
	Name        Difference[string]
	Description Difference[*string]
	UID         Difference[*int]
	Type        Difference[*string]
	Classes     map[string]Difference[*schema.Event]
}

func (*ChangedCategory) isDifference(*schema.Category) {}

// ChangedSchema is the diff of two resolved schemas.
type ChangedSchema struct {
	node
	Version    Difference[string]
	Classes    map[string]Difference[*schema.Event]
	Objects    map[string]Difference[*schema.Object]
	Types      map[string]Difference[*schema.Type]
	BaseEvent  Difference[*schema.Event]
	Profiles   map[string]Difference[*schema.Profile]
	Extensions map[string]Difference[*schema.Extension]
	Categories map[string]Difference[*schema.Category]
}

func (*ChangedSchema) isDifference(*schema.Schema) {}
