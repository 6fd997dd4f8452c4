// Package taxonomy compiles event-taxonomy repositories into resolved
// schemas and diffs resolved schemas for compatibility checking.
//
// A repository is a directory tree of JSON fragments: objects, event
// classes, profiles, extensions, an attribute dictionary, and a category
// list. Compile resolves every fragment, inheritance chain, profile, and
// extension into one self-contained schema document.
package taxonomy

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/seclattice/taxonomy/api"
	"github.com/seclattice/taxonomy/internal/compile"
	"github.com/seclattice/taxonomy/record"
	"github.com/seclattice/taxonomy/schema"
)

// CompileOption adjusts a compilation.
type CompileOption func(*compile.Options)

// WithProfiles enables only the named profiles.
func WithProfiles(names ...string) CompileOption {
	return func(o *compile.Options) { o.Profiles = names }
}

// WithoutProfiles disables the named profiles.
func WithoutProfiles(names ...string) CompileOption {
	return func(o *compile.Options) { o.IgnoreProfiles = names }
}

// WithExtensions enables only the named extension directories.
func WithExtensions(names ...string) CompileOption {
	return func(o *compile.Options) { o.Extensions = names }
}

// WithoutExtensions disables the named extension directories.
func WithoutExtensions(names ...string) CompileOption {
	return func(o *compile.Options) { o.IgnoreExtensions = names }
}

// WithoutExtensionPrefixes keeps extension object and event keys
// unprefixed.
func WithoutExtensionPrefixes() CompileOption {
	return func(o *compile.Options) { o.PrefixExtensions = false }
}

// WithoutObjectTypes skips rewriting object-valued attribute types.
func WithoutObjectTypes() CompileOption {
	return func(o *compile.Options) { o.SetObjectTypes = false }
}

// WithoutObservables skips observable marking and the observable type
// registry build.
func WithoutObservables() CompileOption {
	return func(o *compile.Options) { o.SetObservable = false }
}

// WithoutCategoryMapping skips mapping compiled events into their
// categories' class lists.
func WithoutCategoryMapping() CompileOption {
	return func(o *compile.Options) { o.MapEventCategories = false }
}

// Compile reads a repository from fsys and resolves it into a schema.
func Compile(fsys fs.FS, opts ...CompileOption) (*schema.Schema, error) {
	repo, err := record.ReadRepo(fsys)
	if err != nil {
		return nil, err
	}
	return CompileRepo(repo, opts...)
}

// CompileDir reads a repository from a directory path and resolves it into
// a schema.
func CompileDir(path string, opts ...CompileOption) (*schema.Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository %s: not a directory", path)
	}
	return Compile(os.DirFS(path), opts...)
}

// CompileRepo resolves an already loaded repository into a schema.
func CompileRepo(repo *record.Repository, opts ...CompileOption) (*schema.Schema, error) {
	options := compile.DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	compilation := compile.NewCompilation(repo, options)
	if err := compilation.Analyze(); err != nil {
		return nil, err
	}
	if err := compilation.Order(); err != nil {
		return nil, err
	}
	if err := compilation.Compile(); err != nil {
		return nil, err
	}
	return compilation.Build()
}

// LoadSchema loads a resolved schema from a file path or a schema server
// version. An existing file wins; anything else is treated as a version
// and fetched through the client.
func LoadSchema(ctx context.Context, pathOrVersion string, client *api.Client) (*schema.Schema, error) {
	if _, err := os.Stat(pathOrVersion); err == nil {
		return schema.FromFile(pathOrVersion)
	}
	if client == nil {
		return nil, fmt.Errorf("schema %s: no such file and no schema server client", pathOrVersion)
	}
	return client.Schema(ctx, pathOrVersion)
}
