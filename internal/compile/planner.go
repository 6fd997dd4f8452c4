// Package compile resolves a repository of definition fragments into one
// schema. Planners inspect each repository file and propose operations; the
// compiler orders operations by phase and prerequisite, applies them against
// a working-schema overlay, and materializes the result.
package compile

import (
	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// Operation is one compiler mutation step. It names the path it mutates, an
// optional path whose own operations must be applied first, and the mutation
// itself.
type Operation interface {
	// Target is the repository path this operation mutates.
	Target() string

	// Prerequisite is a path whose operations must be applied before the
	// target's, or "" when the operation has no dependency.
	Prerequisite() string

	// Apply performs the mutation against the working schema and returns
	// the field paths it touched.
	Apply(proto *Proto) ([]merge.Path, error)
}

// operation provides target and prerequisite storage for Operation
// implementations.
type operation struct {
	target string
	prereq string
}

func (o operation) Target() string       { return o.target }
func (o operation) Prerequisite() string { return o.prereq }

// Planner inspects one repository file, pre-mutation, and proposes
// operations for the compilation plan.
type Planner interface {
	Analyze(file *record.File) ([]Operation, error)
}
