package record

import "testing"

func TestKeyPrefersExplicitKey(t *testing.T) {
	obj := &Object{Name: sptr("reg_key")}
	if got := Key(obj); got == nil || *got != "reg_key" {
		t.Fatalf("Key() = %v, want name", got)
	}

	SetKey(obj, "win/reg_key")
	if got := Key(obj); got == nil || *got != "win/reg_key" {
		t.Fatalf("Key() = %v, want explicit key", got)
	}

	if got := Key(&Dictionary{Name: sptr("dictionary")}); got != nil {
		t.Fatalf("Key(dictionary) = %v, want nil", got)
	}
}

func TestSrcExtensionSupport(t *testing.T) {
	tests := []struct {
		name string
		defn Definition
		want bool
	}{
		{"object", &Object{}, true},
		{"event", &Event{}, true},
		{"profile", &Profile{}, true},
		{"dictionary", &Dictionary{}, false},
		{"extension", &Extension{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SetSrcExtension(tt.defn, "windows"); got != tt.want {
				t.Fatalf("SetSrcExtension() = %v, want %v", got, tt.want)
			}
			if tt.want {
				if got := SrcExtension(tt.defn); got == nil || *got != "windows" {
					t.Fatalf("SrcExtension() = %v, want windows", got)
				}
			}
		})
	}
}

func TestAttrsHelpers(t *testing.T) {
	attrs := map[string]*Attr{"path": {}}

	event := &Event{}
	if !SetAttrs(event, attrs) {
		t.Fatal("SetAttrs(event) = false, want true")
	}
	if got := Attrs(event); got["path"] == nil {
		t.Fatalf("Attrs() = %v, want set map", got)
	}
	if !HasAttrs(event) {
		t.Fatal("HasAttrs(event) = false, want true")
	}

	if SetAttrs(&Version{}, attrs) {
		t.Fatal("SetAttrs(version) = true, want false")
	}
	if HasAttrs(&Extension{}) {
		t.Fatal("HasAttrs(extension) = true, want false")
	}
}

func TestAttrIncludeHelpers(t *testing.T) {
	obj := &Object{AttrIncludes: FlexStrings{"includes/host.json"}}
	if got := AttrIncludes(obj); len(got) != 1 {
		t.Fatalf("AttrIncludes() = %v, want one directive", got)
	}
	ClearAttrIncludes(obj)
	if AttrIncludes(obj) != nil {
		t.Fatal("ClearAttrIncludes() left directives behind")
	}
}
