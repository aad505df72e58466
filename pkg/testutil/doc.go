// Package testutil provides helpers for testing cloak components.
//
// Tests run against real temporary directories: the engine's whole job is
// filesystem state, so an in-memory stand-in would hide the behaviour that
// matters (rename semantics, link resolution, permissions).
//
// Key components:
//   - CreateFile / CreateDir / CreateSymlink: quick fixture setup
//   - FileTree / WithFileTree: declarative directory fixtures
//   - Snapshot: a comparable view of a tree for round-trip assertions
//   - FaultFS: a types.FS wrapper that injects failures into single calls
package testutil
