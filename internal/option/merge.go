package option

// Merge builds the effective option set of owner. Every declared option is
// kept; a default option is attached only when no declared option carries
// its name. A default whose shortcut is already taken by a declared option
// is a DefinitionConflictError, the same collision a flag parser would
// refuse at registration time.
//
// Neither input is modified. Either may be nil.
func Merge(owner string, declared, defaults *Set) (*Set, error) {
	out := NewSet(owner)
	for _, o := range declared.All() {
		if err := out.Add(o); err != nil {
			return nil, err
		}
	}
	for _, o := range defaults.All() {
		if out.Has(o.Name()) {
			continue
		}
		if err := out.Add(o); err != nil {
			return nil, err
		}
		out.defaulted[o.Name()] = struct{}{}
	}
	return out, nil
}
