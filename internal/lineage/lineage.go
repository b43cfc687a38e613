// Package lineage holds the declared ancestry of command types. Ancestry is a
// table the program owns (tag -> parent tag), not a runtime type query.
package lineage

import "fmt"

// Table maps a type tag to its parent tag. A tag declared with an empty
// parent is a root.
type Table struct {
	parents map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{parents: make(map[string]string)}
}

// Declare records parent as the direct ancestor of tag. Declaring the same
// pair twice is allowed; re-declaring tag with a different parent is not.
func (t *Table) Declare(tag, parent string) error {
	if tag == "" {
		return fmt.Errorf("lineage: empty type tag")
	}
	if tag == parent {
		return fmt.Errorf("lineage: type %q cannot be its own parent", tag)
	}
	if existing, ok := t.parents[tag]; ok && existing != parent {
		return fmt.Errorf("lineage: type %q already declared with parent %q", tag, existing)
	}
	t.parents[tag] = parent
	return nil
}

// MustDeclare is Declare for tables built from Go literals; it panics on a
// bad declaration.
func (t *Table) MustDeclare(tag, parent string) *Table {
	if err := t.Declare(tag, parent); err != nil {
		panic(err)
	}
	return t
}

// Parent returns the declared parent of tag. ok is false when tag is a root
// or was never declared.
func (t *Table) Parent(tag string) (string, bool) {
	if t == nil {
		return "", false
	}
	parent, ok := t.parents[tag]
	if !ok || parent == "" {
		return "", false
	}
	return parent, true
}

// Declared reports whether tag is known to the table, either declared
// itself or named as the parent of a declared tag.
func (t *Table) Declared(tag string) bool {
	if t == nil {
		return false
	}
	if _, ok := t.parents[tag]; ok {
		return true
	}
	for _, parent := range t.parents {
		if parent == tag {
			return true
		}
	}
	return false
}

// Len returns the number of declared tags.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.parents)
}

// Chain returns tag followed by its ancestors, most derived first. The walk
// stops after sentinel when it is reached, at a root, or at an undeclared
// tag. A cycle in the table ends the walk at the first repeated tag.
func (t *Table) Chain(tag, sentinel string) []string {
	if tag == "" {
		return nil
	}
	seen := make(map[string]struct{})
	chain := []string{}
	for current := tag; ; {
		if _, ok := seen[current]; ok {
			break
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
		if sentinel != "" && current == sentinel {
			break
		}
		parent, ok := t.Parent(current)
		if !ok {
			break
		}
		current = parent
	}
	return chain
}
