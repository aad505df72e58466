// Package types defines the core types and interfaces shared by cloak's
// components: the Target being managed, the states the engine derives from
// disk, link health, per-target results and the FS abstraction used for
// every filesystem touch.
package types
