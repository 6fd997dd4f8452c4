package errors

import (
	"fmt"
	"testing"
)

func TestCompilationErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		c    *Compilation
		want string
	}{
		{
			name: "message only",
			c:    &Compilation{Code: "unknown-category", Message: "category not declared"},
			want: "[unknown-category] category not declared",
		},
		{
			name: "with path",
			c: &Compilation{
				Code:    "unknown-category",
				Message: "category not declared",
				Path:    "events/findings/anomaly.json",
			},
			want: "[unknown-category] category not declared at events/findings/anomaly.json",
		},
		{
			name: "with operation",
			c: &Compilation{
				Code:      "missing-base",
				Message:   "base not found",
				Operation: "extends",
				Path:      "events/system/file_activity.json",
			},
			want: "[missing-base] base not found during extends at events/system/file_activity.json",
		},
		{
			name: "with cause",
			c: &Compilation{
				Code:    "decode",
				Message: "bad fragment",
				Err:     fmt.Errorf("unexpected end of JSON input"),
			},
			want: "[decode] bad fragment: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCompilationf(t *testing.T) {
	c := NewCompilationf(ErrMissingBase, "events/system/x.json", "cannot find base %q", "base_event")
	if c.Code != string(ErrMissingBase) {
		t.Fatalf("Code = %q, want %q", c.Code, ErrMissingBase)
	}
	if c.Message != `cannot find base "base_event"` {
		t.Fatalf("Message = %q", c.Message)
	}
}

func TestAsCompilation(t *testing.T) {
	inner := NewCompilation(ErrUnknownObjectType, "no such object", "objects/file.json")
	wrapped := fmt.Errorf("compile: %w", inner)

	got, ok := AsCompilation(wrapped)
	if !ok {
		t.Fatal("AsCompilation() = false, want true")
	}
	if got.Code != string(ErrUnknownObjectType) {
		t.Fatalf("Code = %q, want %q", got.Code, ErrUnknownObjectType)
	}

	if _, ok := AsCompilation(fmt.Errorf("plain")); ok {
		t.Fatal("AsCompilation(plain) = true, want false")
	}
	if _, ok := AsCompilation(nil); ok {
		t.Fatal("AsCompilation(nil) = true, want false")
	}
}
