package compare

import (
	"reflect"
	"testing"

	"github.com/seclattice/taxonomy/schema"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func sampleSchema() *schema.Schema {
	return &schema.Schema{
		Version: "1.2.0",
		Classes: map[string]*schema.Event{
			"process_activity": {
				Caption: "Process Activity",
				Name:    "process_activity",
				UID:     intp(1001),
				Attributes: map[string]*schema.Attr{
					"activity_id": {
						Caption:     "Activity ID",
						Requirement: "required",
						Type:        "integer_t",
						Enum: map[string]*schema.EnumMember{
							"1": {Caption: "Create"},
						},
					},
				},
			},
		},
		Objects: map[string]*schema.Object{
			"process": {
				Caption: "Process",
				Name:    "process",
				Attributes: map[string]*schema.Attr{
					"name": {Caption: "Name", Requirement: "required", Type: "string_t"},
				},
			},
		},
		Types: map[string]*schema.Type{
			"string_t": {Caption: "String"},
		},
		BaseEvent: &schema.Event{Caption: "Base Event", Name: "base_event"},
	}
}

func TestDiffReflexive(t *testing.T) {
	left := sampleSchema()
	right := sampleSchema()

	got := Diff(left, right)
	if _, ok := got.(NoChange[*schema.Schema]); !ok {
		t.Fatalf("Diff() = %T, want NoChange", got)
	}
}

func TestDiffNilOperands(t *testing.T) {
	if got := Diff(nil, nil); got != (NoChange[*schema.Schema]{}) {
		t.Fatalf("Diff(nil, nil) = %T, want NoChange", got)
	}

	after := sampleSchema()
	got, ok := Diff(nil, after).(Change[*schema.Schema])
	if !ok {
		t.Fatalf("Diff(nil, s) = %T, want Change", Diff(nil, after))
	}
	if got.Before != nil || got.After != after {
		t.Fatalf("Diff(nil, s) = %+v, want whole-value change", got)
	}
}

func TestDictUnion(t *testing.T) {
	old := map[string]int{"a": 1, "b": 2}
	new := map[string]int{"b": 3, "c": 4}

	got := Dict(old, new, scalar[int])
	want := map[string]Difference[int]{
		"a": Removal[int]{Before: 1},
		"b": Change[int]{Before: 2, After: 3},
		"c": Addition[int]{After: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Dict() = %v, want %v", got, want)
	}
}

func TestDictBothNil(t *testing.T) {
	if got := Dict[int](nil, nil, scalar[int]); got != nil {
		t.Fatalf("Dict(nil, nil) = %v, want nil", got)
	}
}

func TestDictEqualValues(t *testing.T) {
	old := map[string]*schema.Type{"string_t": {Caption: "String"}}
	new := map[string]*schema.Type{"string_t": {Caption: "String"}}

	got := Dict(old, new, Types)
	if _, ok := got["string_t"].(NoChange[*schema.Type]); !ok {
		t.Fatalf("Dict()[string_t] = %T, want NoChange", got["string_t"])
	}
}

func TestAttrsChanged(t *testing.T) {
	old := &schema.Attr{Caption: "Name", Requirement: "optional", Type: "string_t"}
	new := &schema.Attr{Caption: "Name", Requirement: "required", Type: "string_t"}

	changed, ok := Attrs(old, new).(*ChangedAttr)
	if !ok {
		t.Fatalf("Attrs() = %T, want *ChangedAttr", Attrs(old, new))
	}
	if got := changed.Requirement; got != (Change[string]{Before: "optional", After: "required"}) {
		t.Fatalf("Requirement = %v, want change optional => required", got)
	}
	if _, ok := changed.Caption.(NoChange[string]); !ok {
		t.Fatalf("Caption = %T, want NoChange", changed.Caption)
	}
}

func TestAttrsEnumMembers(t *testing.T) {
	old := &schema.Attr{
		Caption:     "Activity ID",
		Requirement: "required",
		Type:        "integer_t",
		Enum: map[string]*schema.EnumMember{
			"1": {Caption: "Create"},
			"2": {Caption: "Read"},
		},
	}
	new := &schema.Attr{
		Caption:     "Activity ID",
		Requirement: "required",
		Type:        "integer_t",
		Enum: map[string]*schema.EnumMember{
			"1": {Caption: "Create", Description: strp("A create.")},
			"3": {Caption: "Update"},
		},
	}

	changed, ok := Attrs(old, new).(*ChangedAttr)
	if !ok {
		t.Fatalf("Attrs() = %T, want *ChangedAttr", Attrs(old, new))
	}

	member, ok := changed.Enum["1"].(*ChangedEnumMember)
	if !ok {
		t.Fatalf("Enum[1] = %T, want *ChangedEnumMember", changed.Enum["1"])
	}
	if _, ok := member.Description.(Change[*string]); !ok {
		t.Fatalf("Enum[1].Description = %T, want Change", member.Description)
	}
	if _, ok := changed.Enum["2"].(Removal[*schema.EnumMember]); !ok {
		t.Fatalf("Enum[2] = %T, want Removal", changed.Enum["2"])
	}
	if _, ok := changed.Enum["3"].(Addition[*schema.EnumMember]); !ok {
		t.Fatalf("Enum[3] = %T, want Addition", changed.Enum["3"])
	}
}

func TestDiffTree(t *testing.T) {
	old := sampleSchema()
	new := sampleSchema()
	new.Version = "1.3.0"
	new.Classes["process_activity"].UID = intp(1002)
	new.Objects["file"] = &schema.Object{Caption: "File", Name: "file"}
	delete(new.Types, "string_t")

	changed, ok := Diff(old, new).(*ChangedSchema)
	if !ok {
		t.Fatalf("Diff() = %T, want *ChangedSchema", Diff(old, new))
	}

	if got := changed.Version; got != (Change[string]{Before: "1.2.0", After: "1.3.0"}) {
		t.Fatalf("Version = %v, want change 1.2.0 => 1.3.0", got)
	}
	if _, ok := changed.BaseEvent.(NoChange[*schema.Event]); !ok {
		t.Fatalf("BaseEvent = %T, want NoChange", changed.BaseEvent)
	}

	event, ok := changed.Classes["process_activity"].(*ChangedEvent)
	if !ok {
		t.Fatalf("Classes[process_activity] = %T, want *ChangedEvent", changed.Classes["process_activity"])
	}
	uid, ok := event.UID.(Change[*int])
	if !ok {
		t.Fatalf("UID = %T, want Change", event.UID)
	}
	if *uid.Before != 1001 || *uid.After != 1002 {
		t.Fatalf("UID = %d => %d, want 1001 => 1002", *uid.Before, *uid.After)
	}
	if _, ok := event.Attributes["activity_id"].(NoChange[*schema.Attr]); !ok {
		t.Fatalf("Attributes[activity_id] = %T, want NoChange", event.Attributes["activity_id"])
	}

	if _, ok := changed.Objects["file"].(Addition[*schema.Object]); !ok {
		t.Fatalf("Objects[file] = %T, want Addition", changed.Objects["file"])
	}
	if _, ok := changed.Objects["process"].(NoChange[*schema.Object]); !ok {
		t.Fatalf("Objects[process] = %T, want NoChange", changed.Objects["process"])
	}
	if _, ok := changed.Types["string_t"].(Removal[*schema.Type]); !ok {
		t.Fatalf("Types[string_t] = %T, want Removal", changed.Types["string_t"])
	}
}

func TestEventsProfileList(t *testing.T) {
	old := &schema.Event{Caption: "Base", Name: "base_event", Profiles: []string{"datetime"}}
	new := &schema.Event{Caption: "Base", Name: "base_event", Profiles: []string{"datetime", "host"}}

	changed, ok := Events(old, new).(*ChangedEvent)
	if !ok {
		t.Fatalf("Events() = %T, want *ChangedEvent", Events(old, new))
	}
	profiles, ok := changed.Profiles.(Change[[]string])
	if !ok {
		t.Fatalf("Profiles = %T, want Change", changed.Profiles)
	}
	if !reflect.DeepEqual(profiles.After, []string{"datetime", "host"}) {
		t.Fatalf("Profiles.After = %v, want [datetime host]", profiles.After)
	}
}
