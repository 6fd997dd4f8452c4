package compile

import "github.com/seclattice/taxonomy/record"

// Options control which profiles and extensions take part in a compilation
// and which synthetic rewrite passes run.
type Options struct {
	// Profiles enables only the named profiles. nil enables every profile
	// in the repository.
	Profiles []string

	// Extensions enables only the named extension directories. nil enables
	// every extension in the repository.
	Extensions []string

	// IgnoreProfiles disables the named profiles.
	IgnoreProfiles []string

	// IgnoreExtensions disables the named extension directories.
	IgnoreExtensions []string

	// PrefixExtensions prefixes extension-introduced object and event keys,
	// and attribute type references to them, with the extension name.
	PrefixExtensions bool

	// SetObjectTypes rewrites object-valued attribute types to the
	// canonical object marker with object_type and object_name set.
	SetObjectTypes bool

	// SetObservable marks attribute observable ids by name and type lookup
	// against the dictionary.
	SetObservable bool

	// MapEventCategories maps each compiled event into its category's
	// class list.
	MapEventCategories bool
}

// DefaultOptions enables every profile, extension, and rewrite pass.
func DefaultOptions() Options {
	return Options{
		PrefixExtensions:   true,
		SetObjectTypes:     true,
		SetObservable:      true,
		MapEventCategories: true,
	}
}

// normalize resolves nil enable lists against the repository and applies the
// ignore lists. Planners only consult the resolved lists.
func (o Options) normalize(repo *record.Repository) Options {
	if o.Profiles == nil {
		o.Profiles = repo.Profiles()
	}
	o.Profiles = without(o.Profiles, o.IgnoreProfiles)

	if o.Extensions == nil {
		o.Extensions = repo.Extensions()
	}
	o.Extensions = without(o.Extensions, o.IgnoreExtensions)

	return o
}

// ProfileEnabled reports whether a profile participates in the compilation.
func (o Options) ProfileEnabled(name string) bool {
	return contains(o.Profiles, name)
}

// ExtensionEnabled reports whether an extension directory participates in
// the compilation.
func (o Options) ExtensionEnabled(dir string) bool {
	return contains(o.Extensions, dir)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list, drop []string) []string {
	if len(drop) == 0 {
		return list
	}
	kept := make([]string, 0, len(list))
	for _, v := range list {
		if !contains(drop, v) {
			kept = append(kept, v)
		}
	}
	return kept
}
