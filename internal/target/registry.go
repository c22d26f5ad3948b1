package target

import "sort"

// NewRegistry creates and returns an initialized, empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]ID),
	}
}

// Create registers a new target under name. It fails with ErrDuplicateTarget
// if the name is taken, leaving the registry unchanged.
func (r *Registry) Create(name string) (ID, error) {
	if _, ok := r.byName[name]; ok {
		return -1, &Error{Kind: ErrDuplicateTarget, Target: name}
	}

	id := ID(len(r.targets))
	r.targets = append(r.targets, &Target{name: name})
	r.byName[name] = id
	return id, nil
}

// Get returns the ID registered under name. A missing name is reported with
// false, not as an error.
func (r *Registry) Get(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Target resolves an ID to its target.
func (r *Registry) Target(id ID) (*Target, bool) {
	if id < 0 || int(id) >= len(r.targets) {
		return nil, false
	}
	return r.targets[id], true
}

// Name returns the name of the target behind id, or "" for an invalid ID.
func (r *Registry) Name(id ID) string {
	t, ok := r.Target(id)
	if !ok {
		return ""
	}
	return t.name
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// Names returns all registered target names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops every target. All IDs handed out before are invalid afterwards.
func (r *Registry) Clear() {
	r.targets = nil
	r.byName = make(map[string]ID)
}
