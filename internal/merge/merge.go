// Package merge implements the configurable structural deep merge used by
// every compiler operation to combine definition fragments.
package merge

import (
	"reflect"
	"sort"
	"strings"

	"github.com/seclattice/taxonomy/record"
)

// Path identifies one field in a definition, from the merge root down.
type Path []string

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// HasPrefix reports whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Options control how fields move from the right operand to the left. The
// zero value is the default behavior: fill absent left fields from present
// right fields, add missing map keys, union list fields, and deep-copy right
// values before assignment.
type Options struct {
	// Overwrite updates left whenever right is present, regardless of
	// left's current value.
	Overwrite bool

	// OverwriteNil extends Overwrite to absent right values.
	OverwriteNil bool

	// AllowedFields restricts updates to fields whose path matches one of
	// the entries, by exact head or tuple prefix.
	AllowedFields []Path

	// IgnoredFields skips fields whose path matches one of the entries.
	// Evaluated only when AllowedFields is nil.
	IgnoredFields []Path

	// NoNewMapKeys disables copying right-only map keys into left.
	NoNewMapKeys bool

	// NoMergeLists disables set-union of list-valued fields; lists then
	// follow the scalar rule.
	NoMergeLists bool

	// NoCopy assigns right values by reference instead of deep-copying.
	NoCopy bool
}

var partType = reflect.TypeOf((*record.Part)(nil)).Elem()

// Records merges right into left in place and returns the paths of every
// field actually changed.
//
// The per-field decision: by default a field is updated only when left's
// value is absent and right's is present; Overwrite updates whenever right
// is present (or always, with OverwriteNil); list fields are unioned when
// both sides are present. AllowedFields and IgnoredFields gate the decision
// before the default or overwrite logic runs.
//
// Map-valued fields merge key by key, recursing for definition-part values;
// definition-valued fields merge wholesale; everything else is a scalar
// assignment.
func Records(left, right record.Part, opts Options) []Path {
	if left == nil || right == nil {
		return nil
	}
	return walk(reflect.ValueOf(left), reflect.ValueOf(right), opts, nil)
}

func walk(left, right reflect.Value, opts Options, trail Path) []Path {
	var results []Path

	if left.Kind() != reflect.Pointer || left.IsNil() || right.Kind() != reflect.Pointer || right.IsNil() {
		return results
	}
	lv := left.Elem()
	rv := right.Elem()
	lt := lv.Type()

	for i := 0; i < lt.NumField(); i++ {
		field := lt.Field(i)
		name := fieldName(field)
		if name == "" {
			continue
		}

		rf := rv.FieldByName(field.Name)
		if !rf.IsValid() || rf.Type() != field.Type {
			// The right operand is a different variant without this field.
			continue
		}
		lf := lv.Field(i)
		path := append(append(Path{}, trail...), name)

		rightVal := rf
		if !opts.NoCopy {
			rightVal = deepCopy(rf)
		}

		simple := true

		switch {
		case lf.Kind() == reflect.Map && !lf.IsNil() && rightVal.Kind() == reflect.Map && !rightVal.IsNil():
			if rightVal.Len() == 0 {
				break
			}
			simple = false
			for _, key := range sortedKeys(rightVal) {
				value := rightVal.MapIndex(key)
				next := append(append(Path{}, path...), key.String())

				current := lf.MapIndex(key)
				switch {
				case !current.IsValid():
					if !opts.NoNewMapKeys && canUpdate(next, reflect.Value{}, value, opts) {
						lf.SetMapIndex(key, value)
						results = append(results, next)
					}
				case isPart(current) && isPart(value):
					results = append(results, walk(concrete(current), concrete(value), opts, next)...)
				case !equalValues(current, value) && canUpdate(path, current, value, opts):
					lf.SetMapIndex(key, value)
					results = append(results, next)
				}
			}

		case lf.Kind() == reflect.Slice && !lf.IsNil() &&
			rightVal.Kind() == reflect.Slice && !rightVal.IsNil() &&
			!opts.NoMergeLists && canUpdate(path, lf, rightVal, opts):
			simple = false
			if union := unionSlices(lf, rightVal); !equalValues(lf, union) {
				lf.Set(union)
				results = append(results, path)
			}

		case isPart(lf) && isPart(rightVal):
			simple = false
			results = append(results, walk(concrete(lf), concrete(rightVal), opts, path)...)
		}

		if simple && !equalValues(lf, rightVal) && canUpdate(path, lf, rightVal, opts) {
			lf.Set(rightVal)
			results = append(results, path)
		}
	}

	return results
}

// canUpdate decides whether a field at path should move from right to left.
func canUpdate(path Path, left, right reflect.Value, opts Options) bool {
	change := func() bool {
		switch {
		case opts.Overwrite && opts.OverwriteNil:
			return true
		case opts.Overwrite && !absent(right):
			return true
		case !opts.NoMergeLists && isList(left) && isList(right):
			return true
		default:
			return absent(left) && !absent(right)
		}
	}

	if opts.AllowedFields != nil {
		for _, allow := range opts.AllowedFields {
			if path.HasPrefix(allow) && change() {
				return true
			}
		}
		return false
	}

	if opts.IgnoredFields != nil {
		for _, deny := range opts.IgnoredFields {
			if path.HasPrefix(deny) {
				return false
			}
		}
	}

	return change()
}

// absent reports whether a value counts as unset: nil pointer, nil map, nil
// slice, nil interface, or an invalid value.
func absent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// equalValues reports whether two field values are already identical, in
// which case an update is a no-op and is not recorded.
func equalValues(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return !a.IsValid() && !b.IsValid()
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func isList(v reflect.Value) bool {
	return v.IsValid() && v.Kind() == reflect.Slice && !v.IsNil()
}

// isPart reports whether a value is a non-nil pointer to a definition part.
func isPart(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	return v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Implements(partType)
}

// concrete unwraps interface values to their underlying pointer.
func concrete(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		return v.Elem()
	}
	return v
}

// unionSlices combines two list values as sets, keeping left's order and
// appending unseen right elements in right's order.
func unionSlices(left, right reflect.Value) reflect.Value {
	out := reflect.MakeSlice(left.Type(), 0, left.Len()+right.Len())
	contains := func(v reflect.Value) bool {
		for i := 0; i < out.Len(); i++ {
			if reflect.DeepEqual(out.Index(i).Interface(), v.Interface()) {
				return true
			}
		}
		return false
	}
	for i := 0; i < left.Len(); i++ {
		if v := left.Index(i); !contains(v) {
			out = reflect.Append(out, v)
		}
	}
	for i := 0; i < right.Len(); i++ {
		if v := right.Index(i); !contains(v) {
			out = reflect.Append(out, v)
		}
	}
	return out
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// fieldName returns the merge path segment for a struct field, taken from
// its JSON tag. Unexported and untagged-ignored fields return "".
func fieldName(field reflect.StructField) string {
	if field.PkgPath != "" {
		return ""
	}
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// deepCopy returns a copy of v that shares no mutable state with the
// original.
func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).PkgPath != "" {
				continue
			}
			out.Field(i).Set(deepCopy(v.Field(i)))
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		elem := deepCopy(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	default:
		return v
	}
}

// Copy returns a deep copy of a definition part.
func Copy[T record.Part](part T) T {
	return deepCopy(reflect.ValueOf(part)).Interface().(T)
}
