package taxonomy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/seclattice/taxonomy/schema"
)

func repoFS() fstest.MapFS {
	files := map[string]string{
		"version.json": `{"version": "1.0.0"}`,
		"categories.json": `{
			"caption": "Categories",
			"attributes": {
				"system": {"caption": "System Activity", "uid": 1}
			}
		}`,
		"dictionary.json": `{
			"caption": "Dictionary",
			"attributes": {
				"activity_id": {"caption": "Activity ID", "type": "integer_t", "sibling": "activity_name"},
				"time": {"caption": "Time", "type": "timestamp_t"}
			},
			"types": {
				"attributes": {
					"integer_t": {"caption": "Integer"},
					"timestamp_t": {"caption": "Timestamp"},
					"datetime_t": {"caption": "Datetime"},
					"string_t": {"caption": "String"}
				}
			}
		}`,
		"events/base_event.json": `{
			"caption": "Base Event",
			"name": "base_event",
			"category": "other",
			"description": "The base event.",
			"attributes": {
				"activity_id": {"requirement": "required", "enum": {"1": {"caption": "Create"}}},
				"time": {"requirement": "required"}
			}
		}`,
		"events/system/memory_activity.json": `{
			"caption": "Memory Activity",
			"name": "memory_activity",
			"uid": 4,
			"category": "system",
			"extends": "base_event",
			"attributes": {}
		}`,
		"profiles/datetime.json": `{
			"caption": "Date/Time",
			"name": "datetime",
			"attributes": {}
		}`,
	}

	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func TestCompile(t *testing.T) {
	s, err := Compile(repoFS())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if s.Version != "1.0.0" {
		t.Fatalf("Version = %q, want 1.0.0", s.Version)
	}
	event, ok := s.Classes["memory_activity"]
	if !ok {
		t.Fatal("Compile() missing class memory_activity")
	}
	if event.UID == nil || *event.UID != 1004 {
		t.Fatalf("memory_activity uid = %v, want 1004", event.UID)
	}
	if _, ok := event.Attributes["time_dt"]; !ok {
		t.Fatal("datetime profile should add time_dt")
	}
}

func TestCompileWithoutProfiles(t *testing.T) {
	s, err := Compile(repoFS(), WithoutProfiles("datetime"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	event := s.Classes["memory_activity"]
	if event == nil {
		t.Fatal("Compile() missing class memory_activity")
	}
	if _, ok := event.Attributes["time_dt"]; ok {
		t.Fatal("disabled datetime profile still added time_dt")
	}
}

func TestCompileDirNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "version.json")
	if err := os.WriteFile(file, []byte(`{"version": "1.0.0"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := CompileDir(file); err == nil {
		t.Fatal("CompileDir() error = nil, want not-a-directory error")
	}
}

func TestLoadSchemaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := schema.ToFile(&schema.Schema{Version: "2.0.0"}, path); err != nil {
		t.Fatalf("ToFile() error = %v", err)
	}

	s, err := LoadSchema(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if s.Version != "2.0.0" {
		t.Fatalf("Version = %q, want 2.0.0", s.Version)
	}
}

func TestLoadSchemaMissingWithoutClient(t *testing.T) {
	if _, err := LoadSchema(context.Background(), "1.2.3", nil); err == nil {
		t.Fatal("LoadSchema() error = nil, want missing client error")
	}
}
