package option

import (
	"github.com/zclconf/go-cty/cty"
)

// Spec carries the attributes of an option at declaration time.
type Spec struct {
	Name        string
	Shortcut    string
	Description string
	// Type is the value type of the option. cty.NilType is treated as bool,
	// the type of a plain flag.
	Type    cty.Type
	Default *cty.Value
}

// Option is a single declared option. It is immutable once declared and is
// always handled through its pointer.
type Option struct {
	name        string
	shortcut    string
	description string
	typ         cty.Type
	def         *cty.Value
}

// New declares a new option instance.
func New(spec Spec) *Option {
	typ := spec.Type
	if typ == cty.NilType {
		typ = cty.Bool
	}
	var def *cty.Value
	if spec.Default != nil {
		v := *spec.Default
		def = &v
	}
	return &Option{
		name:        spec.Name,
		shortcut:    spec.Shortcut,
		description: spec.Description,
		typ:         typ,
		def:         def,
	}
}

func (o *Option) Name() string        { return o.name }
func (o *Option) Shortcut() string    { return o.shortcut }
func (o *Option) Description() string { return o.description }
func (o *Option) Type() cty.Type      { return o.typ }

// Default returns the default value and whether one was declared.
func (o *Option) Default() (cty.Value, bool) {
	if o.def == nil {
		return cty.NilVal, false
	}
	return *o.def, true
}

// Same reports whether a and b are the same declared option.
func Same(a, b *Option) bool {
	return a != nil && a == b
}
