package record

import (
	"fmt"
	"path"
	"strings"
)

// Top-level directories of a repository.
const (
	DirObjects    = "objects"
	DirEvents     = "events"
	DirExtensions = "extensions"
	DirIncludes   = "includes"
	DirProfiles   = "profiles"
)

// Special filenames of a repository.
const (
	FileDictionary = "dictionary.json"
	FileCategories = "categories.json"
	FileVersion    = "version.json"
	FileExtension  = "extension.json"

	// FileObservable is the object that accumulates the observable type
	// enumeration during compilation.
	FileObservable = "objects/observable.json"
)

var repoDirs = map[string]bool{
	DirObjects:    true,
	DirEvents:     true,
	DirExtensions: true,
	DirIncludes:   true,
	DirProfiles:   true,
}

var specialFiles = map[string]bool{
	FileDictionary: true,
	FileCategories: true,
	FileVersion:    true,
	FileExtension:  true,
}

// IsSpecialFile reports whether name is one of the fixed repository filenames.
func IsSpecialFile(name string) bool {
	return specialFiles[name]
}

// SanitizePath normalizes a filesystem path to a repository path by trimming
// any leading directories before the first recognized repository directory or
// special filename. It rejects paths that do not follow the repository
// directory conventions.
func SanitizePath(parts ...string) (string, error) {
	p := path.Join(parts...)
	segs := strings.Split(path.Clean(p), "/")

	loc := -1
	for i, seg := range segs {
		if repoDirs[seg] || specialFiles[seg] {
			loc = i
			break
		}
	}
	if loc < 0 {
		return "", fmt.Errorf("invalid repository path %q: no recognized directory or filename", p)
	}

	segs = segs[loc:]
	if segs[0] == DirExtensions {
		switch {
		case len(segs) < 3:
			return "", fmt.Errorf("invalid repository path %q: missing extension name or contents", p)
		case len(segs) > 3 && !repoDirs[segs[2]]:
			return "", fmt.Errorf("invalid repository path %q: %q is not an allowed directory", p, segs[2])
		case len(segs) == 3 && !specialFiles[segs[2]]:
			return "", fmt.Errorf("invalid repository path %q: %q is not an allowed filename", p, segs[2])
		}
	}
	return strings.Join(segs, "/"), nil
}

// ShortName returns the file name of a repository path without directories
// or the .json suffix.
func ShortName(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ExtensionDir returns the extension directory name of a path, or "" when the
// path is not inside an extension directory.
func ExtensionDir(p string) string {
	if !strings.HasPrefix(p, DirExtensions+"/") {
		return ""
	}
	segs := strings.Split(p, "/")
	if len(segs) < 2 {
		return ""
	}
	return segs[1]
}

// Extensionless strips the extensions/<name>/ prefix from a path.
func Extensionless(p string) string {
	if ExtensionDir(p) == "" {
		return p
	}
	segs := strings.Split(p, "/")
	return strings.Join(segs[2:], "/")
}

// CategoryOf returns the category implied by the directory position of an
// event path, or "" when the path carries no category directory.
func CategoryOf(p string) string {
	segs := strings.Split(Extensionless(p), "/")
	if len(segs) > 2 && segs[0] == DirEvents {
		return strings.Join(segs[1:len(segs)-1], "/")
	}
	return ""
}

// Categoryless strips the category directory from an event path.
func Categoryless(p string) string {
	segs := strings.Split(p, "/")
	idx, min := 0, 2
	if ExtensionDir(p) != "" {
		idx, min = 2, 4
	}
	if idx < len(segs) && segs[idx] == DirEvents && len(segs) > min {
		kept := append([]string{}, segs[:idx+1]...)
		kept = append(kept, segs[len(segs)-1])
		return strings.Join(kept, "/")
	}
	return p
}

// DefinitionType returns an empty definition of the variant expected at the
// given repository path.
func DefinitionType(p string) (Definition, error) {
	clean, err := SanitizePath(p)
	if err != nil {
		return nil, err
	}
	segs := strings.Split(clean, "/")

	if len(segs) > 1 {
		switch segs[0] {
		case DirObjects:
			return &Object{}, nil
		case DirEvents:
			return &Event{}, nil
		case DirIncludes:
			return &Include{}, nil
		case DirProfiles:
			return &Profile{}, nil
		case DirExtensions:
			return DefinitionType(strings.Join(segs[2:], "/"))
		}
	}

	switch segs[len(segs)-1] {
	case FileDictionary:
		return &Dictionary{}, nil
	case FileCategories:
		return &Categories{}, nil
	case FileVersion:
		return &Version{}, nil
	case FileExtension:
		return &Extension{}, nil
	}
	return nil, fmt.Errorf("%q is not a recognized repository path", p)
}
