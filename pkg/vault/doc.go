// Package vault owns <root>/.cloak/storage and moves whole subtrees in and
// out of it.
//
// Moves are a single rename when source and destination share a device. When
// they do not, the subtree is copied to a sibling staging name carrying the
// PartialInfix, promoted to its final name with a rename once the copy is
// complete, and only then is the source deleted. A crash at any point leaves
// either the untouched original or a complete copy, and staging entries are
// never reported by List.
package vault
