// Package engine is the execution layer of lbuild. It owns a target registry,
// the buffer of dependency declarations made while a build script is being
// evaluated, and the table of actions attached to targets.
//
// An Engine is built in two phases. While the script runs, targets are
// created and their dependencies are only buffered by name, because a script
// may refer to a target before it is declared. A single Finalize call then
// turns the buffered names into graph edges. After that, Run walks the graph
// depth-first, running each dependency before the target's own action.
//
// An Engine is single-threaded. Actions may call back into it (RunTask) on the
// same goroutine; nothing in this package takes locks.
package engine
