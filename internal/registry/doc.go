// Package registry defines what the inspector needs from a hosting command
// framework, and provides Snapshot, an in-memory implementation.
//
// A Registry exposes its commands in iteration order, the application-wide
// option set, and the lineage table used to describe command types. The
// inspector only ever reads from it. Concrete hosts (a cobra command tree,
// an HCL manifest) adapt themselves to these interfaces in their own
// packages.
package registry
