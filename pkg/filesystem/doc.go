// Package filesystem provides filesystem implementations for cloak.
//
// This package contains the OS implementation of the types.FS interface.
// Text files written through it are replaced atomically so concurrent
// readers of .gitignore or settings.json never observe a half-written file.
package filesystem
