package target

// ID addresses a target inside the Registry that created it. IDs are only
// valid until the registry is cleared.
type ID int

// Target is a single named build unit.
type Target struct {
	// name is the unique, user-facing identifier from the build script.
	name string
	// deps lists the targets this one requires, in declaration order.
	deps []ID
}

// Name returns the target's unique name.
func (t *Target) Name() string {
	return t.name
}

// Dependencies returns a copy of the target's dependency list in declaration
// order.
func (t *Target) Dependencies() []ID {
	deps := make([]ID, len(t.deps))
	copy(deps, t.deps)
	return deps
}

// Registry owns every target of a single engine instance.
// It is not safe for concurrent use.
type Registry struct {
	// targets is the arena; an ID is an index into it.
	targets []*Target
	// byName maps a target name to its ID.
	byName map[string]ID
}
