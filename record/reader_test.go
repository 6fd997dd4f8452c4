package record

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func TestReadRepo(t *testing.T) {
	fsys := fstest.MapFS{
		"version.json":                     {Data: []byte(`{"version": "1.0.0"}`)},
		"dictionary.json":                  {Data: []byte(`{"attributes": {"path": {"caption": "Path"}}}`)},
		"categories.json":                  {Data: []byte(`{"attributes": {"system": {"caption": "System", "uid": 1}}}`)},
		"objects/file.json":                {Data: []byte(`{"caption": "File", "name": "file"}`)},
		"events/system/file_activity.json": {Data: []byte(`{"caption": "File Activity", "name": "file_activity", "uid": 1}`)},
		"profiles/host.json":               {Data: []byte(`{"caption": "Host", "name": "host"}`)},
		"includes/classification.json":     {Data: []byte(`{"attributes": {"class_uid": {}}}`)},
		"extensions/win/extension.json":    {Data: []byte(`{"name": "windows", "uid": 1}`)},
		"extensions/win/objects/reg_key.json": {
			Data: []byte(`{"caption": "Registry Key", "name": "reg_key"}`),
		},
		// Outside the repository conventions, must be skipped.
		"docs/readme.json": {Data: []byte(`{"anything": true}`)},
		"objects/notes.md": {Data: []byte(`not json`)},
	}

	repo, err := ReadRepo(fsys)
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}

	wantPaths := []string{
		"categories.json",
		"dictionary.json",
		"events/system/file_activity.json",
		"extensions/win/extension.json",
		"extensions/win/objects/reg_key.json",
		"includes/classification.json",
		"objects/file.json",
		"profiles/host.json",
		"version.json",
	}
	if got := repo.Paths(); !reflect.DeepEqual(got, wantPaths) {
		t.Fatalf("Paths() = %v, want %v", got, wantPaths)
	}

	event, ok := repo.Get("events/system/file_activity.json").Data.(*Event)
	if !ok {
		t.Fatal("event file decoded to the wrong variant")
	}
	if event.UID == nil || *event.UID != 1 {
		t.Fatalf("event UID = %v, want 1", event.UID)
	}
	version := repo.Get("version.json").Data.(*Version)
	if version.Version == nil || *version.Version != "1.0.0" {
		t.Fatalf("version = %v, want 1.0.0", version.Version)
	}
	ext := repo.Get("extensions/win/extension.json").Data.(*Extension)
	if ext.Name == nil || *ext.Name != "windows" {
		t.Fatalf("extension name = %v, want windows", ext.Name)
	}
}

func TestReadRepoRawData(t *testing.T) {
	fsys := fstest.MapFS{
		"objects/file.json": {Data: []byte(`{"name": "file"}`)},
	}

	repo, err := ReadRepo(fsys, WithRawData())
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}
	if got := string(repo.Get("objects/file.json").Raw); got != `{"name": "file"}` {
		t.Fatalf("Raw = %q, want original content", got)
	}

	repo, err = ReadRepo(fsys)
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}
	if repo.Get("objects/file.json").Raw != nil {
		t.Fatal("Raw preserved without the option")
	}
}

func TestReadRepoDecodeError(t *testing.T) {
	fsys := fstest.MapFS{
		"objects/file.json": {Data: []byte(`{`)},
	}
	if _, err := ReadRepo(fsys); err == nil {
		t.Fatal("ReadRepo() accepted malformed JSON")
	}
}
