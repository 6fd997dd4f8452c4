package record

import "testing"

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "object", in: "objects/file.json", want: "objects/file.json"},
		{name: "event with category", in: "events/system/file_activity.json", want: "events/system/file_activity.json"},
		{name: "leading directories trimmed", in: "home/user/schema-repo/objects/file.json", want: "objects/file.json"},
		{name: "special file", in: "repo/dictionary.json", want: "dictionary.json"},
		{name: "extension object", in: "extensions/win/objects/reg_key.json", want: "extensions/win/objects/reg_key.json"},
		{name: "extension declaration", in: "extensions/win/extension.json", want: "extensions/win/extension.json"},
		{name: "extension dictionary", in: "extensions/win/dictionary.json", want: "extensions/win/dictionary.json"},
		{name: "no recognized segment", in: "docs/readme.json", wantErr: true},
		{name: "bare extensions dir", in: "extensions/win", wantErr: true},
		{name: "extension stray file", in: "extensions/win/notes.json", wantErr: true},
		{name: "extension stray directory", in: "extensions/win/docs/notes.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SanitizePath(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizePath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("SanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShortName(t *testing.T) {
	if got := ShortName("events/system/file_activity.json"); got != "file_activity" {
		t.Fatalf("ShortName() = %q, want %q", got, "file_activity")
	}
}

func TestExtensionDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"extensions/win/objects/reg_key.json", "win"},
		{"objects/file.json", ""},
		{"dictionary.json", ""},
	}
	for _, tt := range tests {
		if got := ExtensionDir(tt.in); got != tt.want {
			t.Fatalf("ExtensionDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtensionless(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"extensions/win/objects/reg_key.json", "objects/reg_key.json"},
		{"extensions/win/events/registry/reg_value_activity.json", "events/registry/reg_value_activity.json"},
		{"objects/file.json", "objects/file.json"},
	}
	for _, tt := range tests {
		if got := Extensionless(tt.in); got != tt.want {
			t.Fatalf("Extensionless(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"events/system/file_activity.json", "system"},
		{"events/base_event.json", ""},
		{"extensions/win/events/registry/reg_key_activity.json", "registry"},
		{"objects/file.json", ""},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.in); got != tt.want {
			t.Fatalf("CategoryOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryless(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"events/system/file_activity.json", "events/file_activity.json"},
		{"events/base_event.json", "events/base_event.json"},
		{"extensions/win/events/registry/reg_key_activity.json", "extensions/win/events/reg_key_activity.json"},
		{"extensions/win/events/reg_key_activity.json", "extensions/win/events/reg_key_activity.json"},
	}
	for _, tt := range tests {
		if got := Categoryless(tt.in); got != tt.want {
			t.Fatalf("Categoryless(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefinitionType(t *testing.T) {
	tests := []struct {
		in   string
		want Definition
	}{
		{"objects/file.json", &Object{}},
		{"events/system/file_activity.json", &Event{}},
		{"includes/classification.json", &Include{}},
		{"profiles/host.json", &Profile{}},
		{"dictionary.json", &Dictionary{}},
		{"categories.json", &Categories{}},
		{"version.json", &Version{}},
		{"extensions/win/extension.json", &Extension{}},
		{"extensions/win/objects/reg_key.json", &Object{}},
		{"extensions/win/dictionary.json", &Dictionary{}},
	}
	for _, tt := range tests {
		got, err := DefinitionType(tt.in)
		if err != nil {
			t.Fatalf("DefinitionType(%q) error = %v", tt.in, err)
		}
		if wt, gt := typeName(tt.want), typeName(got); wt != gt {
			t.Fatalf("DefinitionType(%q) = %s, want %s", tt.in, gt, wt)
		}
	}

	if _, err := DefinitionType("docs/readme.json"); err == nil {
		t.Fatal("DefinitionType() accepted an unrecognized path")
	}
}

func typeName(d Definition) string {
	switch d.(type) {
	case *Object:
		return "object"
	case *Event:
		return "event"
	case *Include:
		return "include"
	case *Profile:
		return "profile"
	case *Dictionary:
		return "dictionary"
	case *Categories:
		return "categories"
	case *Version:
		return "version"
	case *Extension:
		return "extension"
	default:
		return "unknown"
	}
}
