// Package errors defines the typed errors reported by repository loading,
// compilation, and the schema API client.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a compilation or client failure.
type ErrorCode string

const (
	// ErrRepositoryPath indicates a file path outside the repository conventions.
	ErrRepositoryPath ErrorCode = "repository-path"
	// ErrDecode indicates a definition fragment that could not be parsed.
	ErrDecode ErrorCode = "decode"

	// ErrMissingCategories indicates a repository without categories.json.
	ErrMissingCategories ErrorCode = "missing-categories"
	// ErrUnknownCategory indicates an event assigned to an undeclared category.
	ErrUnknownCategory ErrorCode = "unknown-category"
	// ErrMissingBase indicates an extends reference whose base cannot be found.
	ErrMissingBase ErrorCode = "missing-base"
	// ErrMissingInclude indicates an include directive whose target cannot be found.
	ErrMissingInclude ErrorCode = "missing-include"
	// ErrUnknownObjectType indicates an attribute type that is neither a data
	// type nor a known object or event.
	ErrUnknownObjectType ErrorCode = "unknown-object-type"
	// ErrWrongDefinition indicates a definition variant unexpected for its path.
	ErrWrongDefinition ErrorCode = "wrong-definition"

	// ErrInvalidVersion indicates a schema version that is not valid semver.
	ErrInvalidVersion ErrorCode = "invalid-version"
	// ErrSchemaFetch indicates a schema server request that failed.
	ErrSchemaFetch ErrorCode = "schema-fetch"
	// ErrSchemaCache indicates an unusable on-disk schema cache.
	ErrSchemaCache ErrorCode = "schema-cache"
)

// Compilation describes a failure while planning or applying compiler
// operations, with the repository path and operation under way.
type Compilation struct {
	Code      string
	Message   string
	Path      string
	Operation string
	Err       error
}

// Error formats the failure with its code, operation, and path context.
func (c *Compilation) Error() string {
	if c == nil {
		return "compilation <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", c.Code, c.Message))
	if c.Operation != "" {
		b.WriteString(fmt.Sprintf(" during %s", c.Operation))
	}
	if c.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", c.Path))
	}
	if c.Err != nil {
		b.WriteString(fmt.Sprintf(": %s", c.Err))
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (c *Compilation) Unwrap() error {
	if c == nil {
		return nil
	}
	return c.Err
}

// NewCompilation builds a Compilation with a code, message, and path.
func NewCompilation(code ErrorCode, msg, path string) *Compilation {
	return &Compilation{Code: string(code), Message: msg, Path: path}
}

// NewCompilationf formats a message and builds a Compilation.
func NewCompilationf(code ErrorCode, path, format string, args ...any) *Compilation {
	return NewCompilation(code, fmt.Sprintf(format, args...), path)
}

// AsCompilation extracts a Compilation from an error chain.
func AsCompilation(err error) (*Compilation, bool) {
	if err == nil {
		return nil, false
	}
	var c *Compilation
	if errors.As(err, &c) && c != nil {
		return c, true
	}
	return nil, false
}
