package compare

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"
)

// FormatOption adjusts diff rendering.
type FormatOption func(*formatter)

// WithExpandedChanges renders a changed value as paired +/- lines instead
// of a single ~ line.
func WithExpandedChanges() FormatOption {
	return func(f *formatter) { f.expand = true }
}

// WithoutColor disables ANSI color codes in the output.
func WithoutColor() FormatOption {
	return func(f *formatter) { f.plain = true }
}

type formatter struct {
	w      io.Writer
	expand bool
	plain  bool
}

// Format renders a diff tree as a line-oriented report: one line per leaf
// difference, prefixed with + for additions, - for removals, and ~ for
// changes. NoChange leaves produce no output.
func Format(w io.Writer, diff any, opts ...FormatOption) {
	f := &formatter{w: w}
	for _, opt := range opts {
		opt(f)
	}
	f.walk(diff, nil)
}

func (f *formatter) walk(v any, path []string) {
	switch d := v.(type) {
	case Delta:
		f.leaf(d, path)
		return
	case Node:
		f.node(d, path)
		return
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map {
		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		for _, key := range keys {
			f.walk(rv.MapIndex(reflect.ValueOf(key)).Interface(), append(path, key))
		}
	}
}

func (f *formatter) node(n Node, path []string) {
	rv := reflect.Indirect(reflect.ValueOf(n))
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value := rv.Field(i)
		if !value.IsValid() || value.IsZero() {
			continue
		}
		f.walk(value.Interface(), append(path, snake(field.Name)))
	}
}

func (f *formatter) leaf(d Delta, path []string) {
	op, before, after := d.Delta()
	name := strings.Join(path, ".")

	switch op {
	case OpAdd:
		f.line(color.FgGreen, "+ %s: %s", name, display(after, 80))
	case OpRemove:
		f.line(color.FgRed, "- %s: %s", name, display(before, 80))
	case OpChange:
		if f.expand {
			f.line(color.FgGreen, "+ %s: %s", name, display(after, 80))
			f.line(color.FgRed, "- %s: %s", name, display(before, 80))
			return
		}
		f.line(color.FgCyan, "~ %s: %s => %s", name, display(before, 35), display(after, 35))
	}
}

func (f *formatter) line(attr color.Attribute, format string, args ...any) {
	if f.plain {
		fmt.Fprintf(f.w, format+"\n", args...)
		return
	}
	color.New(attr).Fprintf(f.w, format+"\n", args...)
}

// display renders a value for a report line, truncated to width runes.
func display(v any, width int) string {
	var s string
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		s = "<absent>"
	} else {
		s = fmt.Sprintf("%+v", reflect.Indirect(rv).Interface())
	}

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// snake converts an exported field name to its report label.
func snake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (i > 0 && nextLower) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
