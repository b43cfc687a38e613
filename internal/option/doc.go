// Package option models command-line option declarations as the inspector
// sees them.
//
// An Option is compared by identity, never by value: two declarations named
// "quiet" with the same shortcut and description are still two different
// options. A Set holds options unique by name (and by shortcut) in
// declaration order, and Merge is the explicit construction step that layers
// default options underneath a command's own declarations.
package option
