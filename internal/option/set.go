package option

// Set is an ordered collection of options, unique by name and by shortcut.
// The zero value is not usable; create sets with NewSet.
type Set struct {
	owner      string
	order      []*Option
	byName     map[string]*Option
	byShortcut map[string]*Option
	defaulted  map[string]struct{}
}

// NewSet creates an empty set owned by owner. The owner only shows up in
// conflict errors.
func NewSet(owner string) *Set {
	return &Set{
		owner:      owner,
		byName:     make(map[string]*Option),
		byShortcut: make(map[string]*Option),
		defaulted:  make(map[string]struct{}),
	}
}

// Owner returns the name the set was created for.
func (s *Set) Owner() string {
	return s.owner
}

// Add declares o in the set. Adding the very same option twice is a no-op;
// adding a different option under a taken name or shortcut is a
// DefinitionConflictError.
func (s *Set) Add(o *Option) error {
	if existing, ok := s.byName[o.Name()]; ok {
		if Same(existing, o) {
			return nil
		}
		return NewDefinitionConflict(s.owner, o.Name(), "an option with this name already exists")
	}
	if sc := o.Shortcut(); sc != "" {
		if existing, ok := s.byShortcut[sc]; ok {
			return NewDefinitionConflict(s.owner, o.Name(),
				"shortcut \"-"+sc+"\" is already used by option \""+existing.Name()+"\"")
		}
		s.byShortcut[sc] = o
	}
	s.byName[o.Name()] = o
	s.order = append(s.order, o)
	return nil
}

// Get returns the option declared under name.
func (s *Set) Get(name string) (*Option, bool) {
	if s == nil {
		return nil, false
	}
	o, ok := s.byName[name]
	return o, ok
}

// Has reports whether an option named name is declared.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// All returns the options in declaration order.
func (s *Set) All() []*Option {
	if s == nil {
		return nil
	}
	out := make([]*Option, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of options in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// FromDefaults reports whether the option named name was supplied by Merge
// from the defaults rather than declared by the owner.
func (s *Set) FromDefaults(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.defaulted[name]
	return ok
}
