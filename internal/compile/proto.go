package compile

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// Proto is the working-schema overlay: a path-keyed mutable store owned by
// one compilation. Files are deep-copied from the read-only repository on
// first access; the repository itself is never mutated.
type Proto struct {
	repo  *record.Repository
	files map[string]*record.File

	// created tracks paths added by operations that do not exist in the
	// repository, in insertion order.
	created []string
}

// NewProto returns an empty overlay over a repository.
func NewProto(repo *record.Repository) *Proto {
	return &Proto{
		repo:  repo,
		files: make(map[string]*record.File),
	}
}

// Repo returns the backing repository.
func (p *Proto) Repo() *record.Repository {
	return p.repo
}

// Get returns the working copy of the file at path, promoting it from the
// repository on first access.
func (p *Proto) Get(pth string) (*record.File, error) {
	if file, ok := p.files[pth]; ok {
		return file, nil
	}
	src := p.repo.Get(pth)
	if src == nil {
		return nil, fmt.Errorf("file %s not found in repository", pth)
	}
	copied := &record.File{Path: src.Path, Data: merge.Copy(src.Data)}
	p.files[pth] = copied
	return copied, nil
}

// Put adds or replaces the working copy at path.
func (p *Proto) Put(pth string, file *record.File) {
	file.Path = pth
	if _, ok := p.files[pth]; !ok && !p.repo.Contains(pth) {
		p.created = append(p.created, pth)
	}
	p.files[pth] = file
}

// Contains reports whether path exists in the overlay or the repository.
func (p *Proto) Contains(pth string) bool {
	if _, ok := p.files[pth]; ok {
		return true
	}
	return p.repo.Contains(pth)
}

// Paths returns every known path: repository paths in insertion order
// followed by overlay-created paths in insertion order.
func (p *Proto) Paths() []string {
	paths := p.repo.Paths()
	return append(paths, p.created...)
}

// ObjectPath returns the core repository path for an object name.
func (p *Proto) ObjectPath(name string) string {
	return path.Join(record.DirObjects, name+".json")
}

// EventPath returns the repository path for an event name, searching event
// category directories when the flat path does not exist.
func (p *Proto) EventPath(name string) string {
	flat := path.Join(record.DirEvents, name+".json")
	if p.repo.Contains(flat) {
		return flat
	}
	for _, file := range p.repo.Files() {
		if strings.HasPrefix(file.Path, record.DirEvents+"/") && file.ShortName() == name {
			return file.Path
		}
	}
	return flat
}

// ProfilePath returns the core repository path for a profile name.
func (p *Proto) ProfilePath(name string) string {
	return path.Join(record.DirProfiles, name+".json")
}

// FindObject locates an object by key or name. When several paths match,
// the shortest wins.
func (p *Proto) FindObject(name string) (*record.File, error) {
	return p.find(record.DirObjects+"/", name)
}

// FindEvent locates an event by key or name. When several paths match, the
// shortest wins.
func (p *Proto) FindEvent(name string) (*record.File, error) {
	return p.find(record.DirEvents+"/", name)
}

func (p *Proto) find(prefix, name string) (*record.File, error) {
	var found []string
	for _, pth := range p.Paths() {
		if !strings.HasPrefix(pth, prefix) {
			continue
		}
		file, err := p.Get(pth)
		if err != nil {
			return nil, err
		}
		key := record.Key(file.Data)
		defName := record.Name(file.Data)
		if (key != nil && *key == name) || (defName != nil && *defName == name) {
			found = append(found, pth)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%s%s not found", prefix, name)
	}
	sort.Slice(found, func(i, j int) bool {
		if len(found[i]) != len(found[j]) {
			return len(found[i]) < len(found[j])
		}
		return found[i] < found[j]
	})
	return p.Get(found[0])
}

// FindExtensionPath locates an extension directory by its directory name or
// its declared name and returns the extensions/<dir> path.
func (p *Proto) FindExtensionPath(name string) (string, error) {
	marker := path.Join(record.DirExtensions, name, record.FileExtension)
	if p.repo.Contains(marker) {
		return path.Join(record.DirExtensions, name), nil
	}

	for _, pth := range p.repo.Paths() {
		segs := strings.Split(pth, "/")
		if len(segs) != 3 || segs[0] != record.DirExtensions || segs[2] != record.FileExtension {
			continue
		}
		file, err := p.Get(pth)
		if err != nil {
			return "", err
		}
		ext, ok := file.Data.(*record.Extension)
		if !ok || ext.Name == nil {
			continue
		}
		if *ext.Name == name {
			return path.Join(record.DirExtensions, segs[1]), nil
		}
	}
	return "", fmt.Errorf("extension %s not found", name)
}

// FindBase returns the path of the direct base of the object or event at
// child, or "" when the record extends nothing or only itself.
func (p *Proto) FindBase(child string) (string, error) {
	file, err := p.Get(child)
	if err != nil {
		return "", err
	}

	var extends *string
	var finder func(string) (*record.File, error)
	switch data := file.Data.(type) {
	case *record.Object:
		extends, finder = data.Extends, p.FindObject
	case *record.Event:
		extends, finder = data.Extends, p.FindEvent
	default:
		return "", nil
	}
	if extends == nil {
		return "", nil
	}

	parent, err := finder(*extends)
	if err != nil {
		return "", err
	}
	if parent.Path == child {
		return "", nil
	}
	return parent.Path, nil
}
