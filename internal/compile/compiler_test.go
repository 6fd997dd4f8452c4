package compile

import (
	"testing"
	"testing/fstest"

	"github.com/seclattice/taxonomy/errors"
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

func buildRepo(t *testing.T, files map[string]string) *record.Repository {
	t.Helper()
	fsys := fstest.MapFS{}
	for pth, data := range files {
		fsys[pth] = &fstest.MapFile{Data: []byte(data)}
	}
	repo, err := record.ReadRepo(fsys)
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}
	return repo
}

type stubOp struct {
	operation
}

func (stubOp) Apply(*Proto) ([]merge.Path, error) { return nil, nil }

func TestOrderPrerequisitesFirst(t *testing.T) {
	phase := &phaseOps{ops: make(map[string][]Operation)}
	phase.add(stubOp{operation{target: "b", prereq: "a"}})
	phase.add(stubOp{operation{target: "a"}})
	phase.add(stubOp{operation{target: "c", prereq: "a"}})

	c := &Compilation{operations: []*phaseOps{phase}}
	if err := c.Order(); err != nil {
		t.Fatalf("Order() error = %v", err)
	}

	if len(c.plan) != 3 {
		t.Fatalf("Order() planned %d operations, want 3", len(c.plan))
	}
	want := []string{"a", "b", "c"}
	for i, op := range c.plan {
		if op.Target() != want[i] {
			t.Errorf("plan[%d] target = %q, want %q", i, op.Target(), want[i])
		}
	}
}

func TestSetCategoryFromPath(t *testing.T) {
	repo := buildRepo(t, map[string]string{
		"categories.json":        `{"attributes": {"system": {"caption": "System Activity", "uid": 1}}}`,
		"events/system/foo.json": `{"caption": "Foo", "name": "foo", "uid": 5}`,
	})
	proto := NewProto(repo)

	op := SetCategoryOp{operation{target: "events/system/foo.json", prereq: record.FileCategories}}
	paths, err := op.Apply(proto)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(paths) != 1 || paths[0].String() != "category" {
		t.Fatalf("Apply() changed %v, want [category]", paths)
	}

	file, err := proto.Get("events/system/foo.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	event := file.Data.(*record.Event)
	if event.Category == nil || *event.Category != "system" {
		t.Errorf("category = %v, want system", event.Category)
	}
}

func TestSetCategoryUnknown(t *testing.T) {
	repo := buildRepo(t, map[string]string{
		"categories.json":         `{"attributes": {"system": {"caption": "System Activity", "uid": 1}}}`,
		"events/network/bar.json": `{"caption": "Bar", "name": "bar", "uid": 1}`,
	})
	proto := NewProto(repo)

	op := SetCategoryOp{operation{target: "events/network/bar.json", prereq: record.FileCategories}}
	if _, err := op.Apply(proto); err == nil {
		t.Fatalf("Apply() expected error for unknown category")
	} else if c, ok := errors.AsCompilation(err); !ok || c.Code != string(errors.ErrUnknownCategory) {
		t.Errorf("Apply() error = %v, want code %s", err, errors.ErrUnknownCategory)
	}
}

func TestAnalyzeMissingBase(t *testing.T) {
	repo := buildRepo(t, map[string]string{
		"categories.json":        `{"attributes": {"system": {"caption": "System Activity", "uid": 1}}}`,
		"dictionary.json":        `{"caption": "Dictionary", "attributes": {}}`,
		"events/system/foo.json": `{"caption": "Foo", "name": "foo", "uid": 1, "category": "system", "extends": "missing"}`,
	})

	c := NewCompilation(repo, DefaultOptions())
	err := c.Analyze()
	if err == nil {
		t.Fatalf("Analyze() expected error for missing base")
	}
	if comp, ok := errors.AsCompilation(err); !ok || comp.Code != string(errors.ErrMissingBase) {
		t.Errorf("Analyze() error = %v, want code %s", err, errors.ErrMissingBase)
	}
}

const coreDictionary = `{
	"caption": "Attribute Dictionary",
	"attributes": {
		"activity_id": {"caption": "Activity ID", "type": "integer_t"},
		"time": {"caption": "Time", "type": "timestamp_t"},
		"name": {"caption": "Name", "type": "string_t", "observable": 1},
		"process": {"caption": "Process", "type": "process"},
		"class_name": {"caption": "Class Name", "type": "string_t"},
		"category_name": {"caption": "Category Name", "type": "string_t"}
	},
	"types": {
		"attributes": {
			"string_t": {"caption": "String"},
			"integer_t": {"caption": "Integer"},
			"timestamp_t": {"caption": "Timestamp"},
			"datetime_t": {"caption": "Datetime"}
		}
	}
}`

func coreRepo(t *testing.T) *record.Repository {
	t.Helper()
	return buildRepo(t, map[string]string{
		"version.json":    `{"version": "1.2.3"}`,
		"dictionary.json": coreDictionary,
		"categories.json": `{"attributes": {"system": {"caption": "System Activity", "uid": 1, "description": "System events."}}}`,
		"objects/process.json": `{
			"caption": "Process", "name": "process", "observable": 25,
			"description": "A process.",
			"attributes": {"name": {"requirement": "optional"}}
		}`,
		"objects/observable.json": `{
			"caption": "Observable", "name": "observable",
			"description": "An observable.",
			"attributes": {"type_id": {"caption": "Type ID", "enum": {"0": {"caption": "Unknown"}}}}
		}`,
		"events/base_event.json": `{
			"caption": "Base Event", "name": "base_event", "category": "other",
			"description": "The base event.",
			"attributes": {
				"activity_id": {"enum": {"1": {"caption": "Create", "description": "A create."}}},
				"time": {"requirement": "required"},
				"class_name": {"description": "The event class name."},
				"category_name": {"description": "The event category name."}
			}
		}`,
		"events/system/process_activity.json": `{
			"caption": "Process Activity", "name": "process_activity",
			"uid": 1, "category": "system", "extends": "base_event",
			"description": "Process activity.",
			"attributes": {"process": {"requirement": "required"}}
		}`,
		"profiles/datetime.json": `{"name": "datetime", "caption": "Date/Time", "description": "Datetime siblings."}`,
	})
}

func TestCompileCoreSchema(t *testing.T) {
	c := NewCompilation(coreRepo(t), DefaultOptions())
	s, err := c.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if s.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", s.Version)
	}

	event, ok := s.Classes["process_activity"]
	if !ok {
		t.Fatalf("Classes missing process_activity, have %v", len(s.Classes))
	}
	if event.UID == nil || *event.UID != 1001 {
		t.Errorf("process_activity uid = %v, want 1001", event.UID)
	}

	classUID := event.Attributes["class_uid"]
	if classUID == nil || classUID.Enum["1001"] == nil {
		t.Fatalf("class_uid enum missing 1001: %+v", classUID)
	}
	if classUID.Enum["1001"].Caption != "Process Activity" {
		t.Errorf("class_uid enum caption = %q", classUID.Enum["1001"].Caption)
	}

	typeUID := event.Attributes["type_uid"]
	if typeUID == nil || typeUID.Enum["100101"] == nil {
		t.Fatalf("type_uid enum missing 100101: %+v", typeUID)
	}
	if got := typeUID.Enum["100101"].Caption; got != "Process Activity: Create" {
		t.Errorf("type_uid caption = %q, want %q", got, "Process Activity: Create")
	}

	catUID := event.Attributes["category_uid"]
	if catUID == nil || catUID.Enum["1"] == nil || catUID.Enum["1"].Caption != "System Activity" {
		t.Fatalf("category_uid enum = %+v", catUID)
	}

	proc := event.Attributes["process"]
	if proc == nil {
		t.Fatalf("process attribute missing")
	}
	if proc.Type != "object" || proc.ObjectType == nil || *proc.ObjectType != "process" {
		t.Errorf("process attr type = %q object_type = %v", proc.Type, proc.ObjectType)
	}
	if proc.ObjectName == nil || *proc.ObjectName != "Process" {
		t.Errorf("process attr object_name = %v", proc.ObjectName)
	}
	if proc.Requirement != "required" {
		t.Errorf("process attr requirement = %q, want required", proc.Requirement)
	}
	if proc.Caption != "Process" {
		t.Errorf("process attr caption = %q, want Process", proc.Caption)
	}

	if tm := event.Attributes["time"]; tm == nil || tm.Caption != "Time" {
		t.Errorf("time attr = %+v, want dictionary caption", tm)
	}
	dt := event.Attributes["time_dt"]
	if dt == nil {
		t.Fatalf("time_dt sibling not added")
	}
	if dt.Type != "datetime_t" || dt.Requirement != "optional" {
		t.Errorf("time_dt type = %q requirement = %q", dt.Type, dt.Requirement)
	}

	className := event.Attributes["class_name"]
	if className == nil || className.Description == nil {
		t.Fatalf("class_name attribute missing")
	}
	if want := "The event class name: <code>Process Activity</code>."; *className.Description != want {
		t.Errorf("class_name description = %q, want %q", *className.Description, want)
	}
	catName := event.Attributes["category_name"]
	if catName == nil || catName.Description == nil ||
		*catName.Description != "The event category name: <code>System Activity</code>." {
		t.Errorf("category_name description = %+v", catName)
	}

	if s.BaseEvent == nil || s.BaseEvent.Name != "base_event" {
		t.Fatalf("BaseEvent = %+v", s.BaseEvent)
	}
	if s.BaseEvent.UID == nil || *s.BaseEvent.UID != 0 {
		t.Errorf("base event uid = %v, want 0", s.BaseEvent.UID)
	}

	procObj := s.Objects["process"]
	if procObj == nil {
		t.Fatalf("Objects missing process")
	}
	if attr := procObj.Attributes["name"]; attr == nil || attr.Observable == nil || *attr.Observable != 1 {
		t.Errorf("process.name observable = %+v", procObj.Attributes["name"])
	}

	obs := s.Objects["observable"]
	if obs == nil {
		t.Fatalf("Objects missing observable")
	}
	enum := obs.Attributes["type_id"].Enum
	for _, key := range []string{"0", "1", "25"} {
		if enum[key] == nil {
			t.Errorf("observable type_id enum missing %s", key)
		}
	}
	if enum["25"] != nil && enum["25"].Caption != "Process" {
		t.Errorf("observable enum 25 caption = %q, want Process", enum["25"].Caption)
	}

	cat := s.Categories["system"]
	if cat == nil {
		t.Fatalf("Categories missing system")
	}
	cls := cat.Classes["process_activity"]
	if cls == nil {
		t.Fatalf("category class list missing process_activity")
	}
	if len(cls.Attributes) != 0 {
		t.Errorf("category class entry has %d attributes, want none", len(cls.Attributes))
	}

	if s.Profiles["datetime"] == nil {
		t.Errorf("Profiles missing datetime")
	}
	if s.Types["timestamp_t"] == nil {
		t.Errorf("Types missing timestamp_t")
	}
}

func TestCompileExtensions(t *testing.T) {
	repo := buildRepo(t, map[string]string{
		"version.json": `{"version": "1.0.0"}`,
		"dictionary.json": `{
			"caption": "Attribute Dictionary",
			"attributes": {"name": {"caption": "Name", "type": "string_t"}}
		}`,
		"categories.json": `{"attributes": {"system": {"caption": "System Activity", "uid": 1}}}`,
		"objects/process.json": `{
			"caption": "Process", "name": "process", "description": "A process.",
			"attributes": {"name": {"requirement": "optional"}}
		}`,
		"extensions/win/extension.json": `{"name": "win", "uid": 2, "caption": "Windows"}`,
		"extensions/win/objects/process.json": `{
			"attributes": {"pid": {"requirement": "optional", "caption": "PID"}}
		}`,
		"extensions/win/objects/reg_key.json": `{
			"caption": "Registry Key", "name": "reg_key", "description": "A registry key.",
			"attributes": {"name": {"requirement": "recommended"}}
		}`,
		"extensions/win/objects/win_service.json": `{
			"caption": "Win Service", "name": "win_service", "description": "A service.",
			"attributes": {"reg_key": {"requirement": "optional", "caption": "Key", "type": "reg_key"}}
		}`,
	})

	c := NewCompilation(repo, DefaultOptions())
	s, err := c.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	ext := s.Extensions["win"]
	if ext == nil || ext.UID != 2 {
		t.Fatalf("Extensions[win] = %+v", ext)
	}

	proc := s.Objects["process"]
	if proc == nil {
		t.Fatalf("Objects missing process")
	}
	if pid := proc.Attributes["pid"]; pid == nil || pid.Requirement != "optional" {
		t.Errorf("patched process.pid = %+v", proc.Attributes["pid"])
	}

	if _, ok := s.Objects["reg_key"]; ok {
		t.Errorf("reg_key present without extension prefix")
	}
	regKey := s.Objects["win/reg_key"]
	if regKey == nil {
		t.Fatalf("Objects missing win/reg_key, have %v", len(s.Objects))
	}
	if regKey.Caption != "Registry Key" {
		t.Errorf("win/reg_key caption = %q", regKey.Caption)
	}

	svc := s.Objects["win/win_service"]
	if svc == nil {
		t.Fatalf("Objects missing win/win_service")
	}
	ref := svc.Attributes["reg_key"]
	if ref == nil {
		t.Fatalf("win_service.reg_key attribute missing")
	}
	if ref.Type != "object" {
		t.Errorf("reg_key attr type = %q, want object", ref.Type)
	}
	if ref.ObjectType == nil || *ref.ObjectType != "win/reg_key" {
		t.Errorf("reg_key attr object_type = %v, want win/reg_key", ref.ObjectType)
	}
	if ref.ObjectName == nil || *ref.ObjectName != "Registry Key" {
		t.Errorf("reg_key attr object_name = %v", ref.ObjectName)
	}
}

func TestCompileUnprefixedExtensions(t *testing.T) {
	repo := buildRepo(t, map[string]string{
		"version.json":                  `{"version": "1.0.0"}`,
		"dictionary.json":               `{"caption": "Attribute Dictionary", "attributes": {}}`,
		"categories.json":               `{"attributes": {}}`,
		"extensions/win/extension.json": `{"name": "win", "uid": 2, "caption": "Windows"}`,
		"extensions/win/objects/reg_key.json": `{
			"caption": "Registry Key", "name": "reg_key", "description": "A registry key."
		}`,
	})

	options := DefaultOptions()
	options.PrefixExtensions = false
	s, err := NewCompilation(repo, options).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.Objects["reg_key"] == nil {
		t.Fatalf("Objects missing reg_key, have %v", len(s.Objects))
	}
	if s.Objects["win/reg_key"] != nil {
		t.Errorf("prefixed key present with prefixing disabled")
	}
}
