// Package linker creates, removes and verifies the link a hidden target
// leaves at its original location.
//
// Everything that differs between operating systems sits behind Platform:
// how a link is materialised (symlink, or a junction where symlinks need
// privilege), how a directory entry is recognised as a link, and how the OS
// hidden flag is applied to the link entry itself. Manager never checks
// GOOS; the variant is chosen at build time.
package linker
