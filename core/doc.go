// Package core provides the foundational domain types, interfaces and execution
// contexts used by SkillMesh. It defines the core abstractions for:
//
//   - Routines (named, invocable procedures bundled into skills)
//   - RunContext (the immutable per-run execution scope)
//   - StateFrame / RoutineStack (per-invocation local state bookkeeping)
//   - Events (typed user-facing status records emitted during execution)
//   - The Drive contract (scoped key/value persistence)
//
// The package intentionally keeps implementation concerns (persistence, engine
// orchestration, concrete skills) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
