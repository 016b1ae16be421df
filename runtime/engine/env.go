package engine

// Environment is the per-run shared context. A fresh Environment is built
// for every Process invocation; nothing in it outlives the run.
//
// Scope is the primary mutable state targeted by the path-oriented steps.
// It may be read, mutated in place, or wholesale replaced during a run.
// Args are the fixed top-level invocation arguments.
//
// The engine is single-threaded and pull-driven: an Environment must only
// ever be touched by one logical thread of control. Hosts invoking one
// Process concurrently get isolation for free because each invocation
// builds its own Environment.
type Environment struct {
	Cursor Cursor
	Scope  any
	Args   []any
}
