// Package target holds the build target registry and its dependency graph.
//
// Targets live in an arena owned by a Registry and are addressed by stable
// integer IDs. Dependency edges are append-only and every insertion is checked
// against the existing graph, so the graph stays acyclic at all times.
package target
