package target

import "fmt"

// HasCircularDependency reports whether t1 is reachable from t2 by following
// dependency edges outward from t2. A target is reachable from itself.
//
// Making t1 depend on t2 closes a cycle exactly when this returns true.
func (r *Registry) HasCircularDependency(t1, t2 ID) bool {
	if _, ok := r.Target(t2); !ok {
		return false
	}

	visited := make(map[ID]bool)
	queue := []ID{t2}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == t1 {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true

		queue = append(queue, r.targets[cur].deps...)
	}
	return false
}

// AddDependency appends the target named depName to id's dependency list.
//
// A depName that is not registered is ignored without error. An edge that
// would close a cycle is rejected with ErrCircularDependency and the graph is
// left untouched.
func (r *Registry) AddDependency(id ID, depName string) error {
	t, ok := r.Target(id)
	if !ok {
		return UnknownTarget(fmt.Sprintf("#%d", id))
	}

	dep, ok := r.Get(depName)
	if !ok {
		return nil
	}

	if r.HasCircularDependency(id, dep) {
		return &Error{Kind: ErrCircularDependency, Target: t.name, Dependency: depName}
	}

	t.deps = append(t.deps, dep)
	return nil
}
