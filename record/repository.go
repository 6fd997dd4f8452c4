package record

import (
	"strings"
)

// File is a single definition file in a repository.
type File struct {
	// Path is the repository path of the file. It always matches the key
	// under which the file is stored.
	Path string

	// Data is the parsed definition for the path.
	Data Definition

	// Raw is the raw file content. Optional, useful for debugging.
	Raw []byte
}

// ShortName returns the file name without directories or extension.
func (f *File) ShortName() string {
	return ShortName(f.Path)
}

// Repository is an insertion-ordered, path-keyed collection of definition
// files for one compilation run. It is built once by a reader and treated as
// read-only by the compiler.
type Repository struct {
	contents map[string]*File
	order    []string
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{contents: make(map[string]*File)}
}

// Get returns the file at path, or nil when absent.
func (r *Repository) Get(path string) *File {
	return r.contents[path]
}

// Contains reports whether the repository holds a file at path.
func (r *Repository) Contains(path string) bool {
	_, ok := r.contents[path]
	return ok
}

// Len returns the number of files in the repository.
func (r *Repository) Len() int {
	return len(r.contents)
}

// Put adds or replaces the file at path.
func (r *Repository) Put(path string, file *File) {
	file.Path = path
	if _, ok := r.contents[path]; !ok {
		r.order = append(r.order, path)
	}
	r.contents[path] = file
}

// Delete removes the file at path.
func (r *Repository) Delete(path string) {
	if _, ok := r.contents[path]; !ok {
		return
	}
	delete(r.contents, path)
	for i, p := range r.order {
		if p == path {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Paths returns the repository paths in insertion order.
func (r *Repository) Paths() []string {
	return append([]string(nil), r.order...)
}

// Files returns the definition files in insertion order.
func (r *Repository) Files() []*File {
	files := make([]*File, 0, len(r.order))
	for _, p := range r.order {
		files = append(files, r.contents[p])
	}
	return files
}

// Extensions returns the extension directory names present in the
// repository, in first-seen order. An extension directory may not match the
// name declared in its extension.json.
func (r *Repository) Extensions() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range r.order {
		dir := ExtensionDir(p)
		if dir != "" && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Profiles returns the profile names in the repository, in first-seen order.
// The declared name wins over the file name when present.
func (r *Repository) Profiles() []string {
	var names []string
	for _, p := range r.order {
		if !r.isProfilePath(p) {
			continue
		}
		if prof, ok := r.contents[p].Data.(*Profile); ok && prof.Name != nil {
			names = append(names, *prof.Name)
			continue
		}
		names = append(names, ShortName(p))
	}
	return names
}

func (r *Repository) isProfilePath(p string) bool {
	segs := strings.Split(p, "/")
	switch {
	case len(segs) == 2 && segs[0] == DirProfiles:
		return true
	case len(segs) == 4 && segs[0] == DirExtensions && segs[2] == DirProfiles:
		return true
	default:
		return false
	}
}
