package schema

import (
	"path/filepath"
	"strings"
	"testing"
)

const sampleSchema = `{
	"version": "1.2.0",
	"classes": {
		"file_activity": {
			"caption": "File System Activity",
			"name": "file_activity",
			"uid": 1001,
			"category": "system",
			"attributes": {
				"file": {
					"caption": "File",
					"requirement": "required",
					"type": "object_t",
					"object_type": "file"
				},
				"activity_id": {
					"caption": "Activity ID",
					"requirement": "required",
					"type": "integer_t",
					"enum": {
						"1": {"caption": "Create"}
					}
				}
			},
			"@deprecated": {"message": "Gone soon.", "since": "1.1.0"}
		}
	},
	"objects": {
		"file": {
			"caption": "File",
			"name": "file",
			"attributes": {
				"path": {"caption": "Path", "requirement": "recommended", "type": "string_t"}
			}
		}
	},
	"types": {
		"string_t": {"caption": "String"},
		"integer_t": {"caption": "Integer"}
	}
}`

func TestFromJSONResolvesObjectTypes(t *testing.T) {
	s, err := FromJSON([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	if s.Version != "1.2.0" {
		t.Fatalf("Version = %q, want 1.2.0", s.Version)
	}
	attr := s.Classes["file_activity"].Attributes["file"]
	if attr.Type != "file" {
		t.Fatalf("file attribute type = %q, want resolved object name", attr.Type)
	}
	dep := s.Classes["file_activity"].Deprecated
	if dep == nil || dep.Since != "1.1.0" {
		t.Fatalf("Deprecated = %+v, want since 1.1.0", dep)
	}
}

func TestFromJSONRawObjectTypes(t *testing.T) {
	s, err := FromJSON([]byte(sampleSchema), WithRawObjectTypes())
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	attr := s.Classes["file_activity"].Attributes["file"]
	if attr.Type != ObjectMarker {
		t.Fatalf("file attribute type = %q, want %q", attr.Type, ObjectMarker)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s, err := FromJSON([]byte(sampleSchema), WithRawObjectTypes())
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	data, err := ToJSON(s)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"@deprecated"`) {
		t.Fatal("deprecation marker lost its JSON key on encode")
	}

	again, err := FromJSON(data, WithRawObjectTypes())
	if err != nil {
		t.Fatalf("FromJSON(round trip) error = %v", err)
	}
	if again.Classes["file_activity"].Attributes["activity_id"].Enum["1"].Caption != "Create" {
		t.Fatal("enum member lost in round trip")
	}
}

func TestFileRoundTrip(t *testing.T) {
	s, err := FromJSON([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "schema.json")
	if err := ToFile(s, path); err != nil {
		t.Fatalf("ToFile() error = %v", err)
	}
	again, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if again.Version != s.Version {
		t.Fatalf("Version = %q, want %q", again.Version, s.Version)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("FromFile() succeeded on a missing file")
	}
}

func TestFromJSONMalformed(t *testing.T) {
	if _, err := FromJSON([]byte(`{"version": 3}`)); err == nil {
		t.Fatal("FromJSON() accepted a non-string version")
	}
}
