package compile

import (
	"fmt"

	"github.com/seclattice/taxonomy/record"
	"github.com/seclattice/taxonomy/schema"
)

// phaseOps groups a phase's planned operations by target path, preserving
// the order in which targets were first planned.
type phaseOps struct {
	targets []string
	ops     map[string][]Operation
}

func (p *phaseOps) add(op Operation) {
	target := op.Target()
	if _, ok := p.ops[target]; !ok {
		p.targets = append(p.targets, target)
	}
	p.ops[target] = append(p.ops[target], op)
}

// Compilation drives a four-phase compilation of a repository into a
// resolved schema. Each phase analyzes the pristine repository with its own
// planners, orders the resulting operations so prerequisites come first, and
// applies them to the working copies.
type Compilation struct {
	repo     *record.Repository
	proto    *Proto
	planners [][]Planner

	operations []*phaseOps
	plan       []Operation
	compiled   bool
	schema     *schema.Schema
}

// NewCompilation prepares a compilation of the repository with the given
// options. The assignment of planners to phases is load-bearing; operations
// in later phases depend on state the earlier phases leave behind.
func NewCompilation(repo *record.Repository, options Options) *Compilation {
	options = options.normalize(repo)
	proto := NewProto(repo)

	extn := extensionScoped{options: options}
	planners := [][]Planner{
		{
			&AnnotationPlanner{options: options},
			&MarkExtensionPlanner{extensionScoped: extn, proto: proto},
			MarkProfilePlanner{},
			&IncludePlanner{proto: proto, options: options},
			&ExtendsPlanner{proto: proto, options: options},
			NewBuildObservableTypesPlanner(proto),
			&ExtensionMergePlanner{extensionScoped: extn, proto: proto},
			&ExcludeProfileAttrsPlanner{proto: proto, options: options},
		},
		{
			SetCategoryPlanner{},
		},
		{
			UidPlanner{},
			DictionaryPlanner{},
		},
		{
			NewExtensionPrefixPlanner(proto, options),
			NewObjectTypePlanner(proto, options),
			UidSiblingPlanner{},
			DateTimePlanner{options: options},
			NewMarkObservablesPlanner(proto, options),
			MapEventToCategoryPlanner{options: options},
			&ExtensionCopyPlanner{extensionScoped: extn, proto: proto},
		},
	}

	return &Compilation{repo: repo, proto: proto, planners: planners}
}

// Analyze runs every planner over the repository and collects the
// operations each phase needs.
func (c *Compilation) Analyze() error {
	operations := make([]*phaseOps, 0, len(c.planners))
	for _, phase := range c.planners {
		found := &phaseOps{ops: make(map[string][]Operation)}
		for _, planner := range phase {
			for _, file := range c.repo.Files() {
				ops, err := planner.Analyze(file)
				if err != nil {
					return err
				}
				for _, op := range ops {
					found.add(op)
				}
			}
		}
		operations = append(operations, found)
	}
	c.operations = operations
	return nil
}

// Order arranges each phase's operations so that every operation runs after
// the operations of its prerequisite path.
func (c *Compilation) Order() error {
	if c.operations == nil {
		if err := c.Analyze(); err != nil {
			return err
		}
	}

	var plan []Operation
	for _, phase := range c.operations {
		planned := make(map[string]bool)

		var follow func(target string)
		follow = func(target string) {
			if planned[target] {
				return
			}
			if _, ok := phase.ops[target]; !ok {
				return
			}
			planned[target] = true
			for _, op := range phase.ops[target] {
				if prereq := op.Prerequisite(); prereq != "" && !planned[prereq] {
					follow(prereq)
				}
				plan = append(plan, op)
			}
		}

		for _, target := range phase.targets {
			follow(target)
		}
	}

	c.plan = plan
	return nil
}

// Compile applies the ordered plan to the working copies. The first failing
// operation aborts the compilation.
func (c *Compilation) Compile() error {
	if c.plan == nil {
		if err := c.Order(); err != nil {
			return err
		}
	}

	for _, op := range c.plan {
		if _, err := op.Apply(c.proto); err != nil {
			return fmt.Errorf("compile %s: %w", op.Target(), err)
		}
	}
	c.compiled = true
	return nil
}

// Build compiles the repository if needed and materializes the resolved
// schema.
func (c *Compilation) Build() (*schema.Schema, error) {
	if !c.compiled {
		if err := c.Compile(); err != nil {
			return nil, err
		}
	}
	if c.schema == nil {
		s, err := c.proto.Schema()
		if err != nil {
			return nil, err
		}
		c.schema = s
	}
	return c.schema, nil
}
