// Package engine classifies targets from filesystem evidence and drives them
// between states.
//
// There is no manifest. Every call re-derives a target's state from three
// observations: the object at its root path, the vault entry, and (for
// drift reporting) the ignore and exclusion entries. Hide and Unhide run an
// ordered list of steps; when one fails, the completed steps are undone in
// reverse and the error names the target and the failed step.
//
// States:
//
//	visible           real entry at the root, nothing in the vault
//	hidden            healthy link at the root, vault entry present
//	orphaned-link     link at the root whose vault side is missing or mismatched
//	orphaned-storage  vault entry with nothing at the root
//	conflicted        real entry at the root and a vault entry
//	absent            nothing at either path
//	unmanaged         link at the root pointing outside the vault, no vault entry
package engine
