package record

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ReadOption configures repository reading.
type ReadOption func(*readConfig)

type readConfig struct {
	preserveRaw bool
}

// WithRawData preserves the raw file contents on each repository file.
func WithRawData() ReadOption {
	return func(cfg *readConfig) {
		cfg.preserveRaw = true
	}
}

// ReadRepo loads a directory tree of definition fragments into a Repository.
// Directories outside the fixed repository conventions are skipped; a
// fragment that fails to decode aborts the read.
func ReadRepo(fsys fs.FS, opts ...ReadOption) (*Repository, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := NewRepository()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == "." || relevantDir(p) {
				return nil
			}
			return fs.SkipDir
		}
		if path.Ext(p) != ".json" {
			return nil
		}

		repoPath, err := SanitizePath(p)
		if err != nil {
			// Stray JSON files outside the conventions are skipped.
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		defn, err := Decode(repoPath, data)
		if err != nil {
			return err
		}

		file := &File{Path: repoPath, Data: defn}
		if cfg.preserveRaw {
			file.Raw = data
		}
		repo.Put(repoPath, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read repository: %w", err)
	}
	return repo, nil
}

// relevantDir reports whether a directory may hold repository fragments.
func relevantDir(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if repoDirs[seg] {
			return true
		}
	}
	return false
}
