// Package cobrareg exposes a cobra command tree as a registry.Registry.
//
// The root command is the application and its persistent flags are the
// global options. Every other command in the tree is a registered command
// whose option set is its own flags merged with the persistent flags of its
// ancestors, nearest first, the way cobra merges them before parsing.
//
// pflag flags are pointers, so identity carries over: an inherited
// persistent flag maps to the same *option.Option as the global one, while
// a command that defines its own --quiet gets a distinct instance. The tree
// is never modified; cobra's own merge step is not run.
package cobrareg

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// TypeAnnotation is the cobra annotation key carrying a command's type tag.
const TypeAnnotation = "cmdinspect/type"

// DefaultTypeName is the type tag of commands without a TypeAnnotation.
const DefaultTypeName = "cobra.Command"

// Registry is a read-only registry view over a cobra command tree.
type Registry struct {
	root    *cobra.Command
	lineage *lineage.Table
	options map[*pflag.Flag]*option.Option
}

var (
	_ registry.Registry = (*Registry)(nil)
	_ registry.Prober   = (*Registry)(nil)
)

// New wraps root. table declares the ancestry of the type tags used in
// TypeAnnotation; it may be nil.
func New(root *cobra.Command, table *lineage.Table) *Registry {
	return &Registry{
		root:    root,
		lineage: table,
		options: make(map[*pflag.Flag]*option.Option),
	}
}

// Name returns the name of the root command.
func (r *Registry) Name() string { return r.root.Name() }

// Lineage returns the declared type ancestry.
func (r *Registry) Lineage() *lineage.Table { return r.lineage }

// GlobalOptions returns the persistent flags of the root command.
func (r *Registry) GlobalOptions() (*option.Set, error) {
	set := option.NewSet(r.root.Name())
	if err := r.addFlags(set, r.root.PersistentFlags(), false); err != nil {
		return nil, err
	}
	return set, nil
}

// ListAll returns every command below the root, depth first.
func (r *Registry) ListAll() []registry.Command {
	var out []registry.Command
	var walk func(parent *cobra.Command, prefix []string)
	walk = func(parent *cobra.Command, prefix []string) {
		for _, child := range parent.Commands() {
			path := append(append([]string{}, prefix...), child.Name())
			out = append(out, &Command{reg: r, cmd: child, name: strings.Join(path, ":")})
			walk(child, path)
		}
	}
	walk(r.root, nil)
	return out
}

// ProbeCommand builds a command that declares nothing and inherits the
// root's persistent flags, as a new subcommand of the root would.
func (r *Registry) ProbeCommand() (registry.Command, error) {
	globals, err := r.GlobalOptions()
	if err != nil {
		return nil, err
	}
	set, err := option.Merge(registry.ProbeName, nil, globals)
	if err != nil {
		return nil, err
	}
	return registry.NewStaticCommand(registry.ProbeName, DefaultTypeName, set), nil
}

// Command is one cobra command seen through the registry.
type Command struct {
	reg  *Registry
	cmd  *cobra.Command
	name string
}

// Name is the command path below the root joined with ":".
func (c *Command) Name() string { return c.name }

// TypeName returns the TypeAnnotation of the command or DefaultTypeName.
func (c *Command) TypeName() string {
	if tag, ok := c.cmd.Annotations[TypeAnnotation]; ok && tag != "" {
		return tag
	}
	return DefaultTypeName
}

// Options merges the command's own flags with the persistent flags of its
// ancestors. A shorthand claimed twice is a DefinitionConflictError, the
// collision cobra would panic on while parsing.
func (c *Command) Options() (*option.Set, error) {
	declared := option.NewSet(c.name)
	if err := c.reg.addFlags(declared, c.cmd.Flags(), false); err != nil {
		return nil, err
	}
	if err := c.reg.addFlags(declared, c.cmd.PersistentFlags(), true); err != nil {
		return nil, err
	}

	inherited := option.NewSet(c.name)
	for p := c.cmd.Parent(); p != nil; p = p.Parent() {
		if err := c.reg.addFlags(inherited, p.PersistentFlags(), true); err != nil {
			return nil, err
		}
	}
	return option.Merge(c.name, declared, inherited)
}

// addFlags adds every flag of fs to set. With skipKnown, flags whose name
// is already in set are ignored, matching pflag's AddFlagSet.
func (r *Registry) addFlags(set *option.Set, fs *pflag.FlagSet, skipKnown bool) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || (skipKnown && set.Has(f.Name)) {
			return
		}
		err = set.Add(r.optionFor(f))
	})
	return err
}

// optionFor returns the option standing for f, creating it once per flag.
func (r *Registry) optionFor(f *pflag.Flag) *option.Option {
	if o, ok := r.options[f]; ok {
		return o
	}
	typ := flagType(f.Value.Type())
	spec := option.Spec{
		Name:        f.Name,
		Shortcut:    f.Shorthand,
		Description: f.Usage,
		Type:        typ,
	}
	if def, ok := flagDefault(f.DefValue, typ); ok {
		spec.Default = &def
	}
	o := option.New(spec)
	r.options[f] = o
	return o
}

func flagType(name string) cty.Type {
	for _, suffix := range []string{"Slice", "Array"} {
		if elem, ok := strings.CutSuffix(name, suffix); ok {
			return cty.List(flagType(elem))
		}
	}
	switch name {
	case "bool":
		return cty.Bool
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64", "count":
		return cty.Number
	default:
		return cty.String
	}
}

// flagDefault converts pflag's textual default to typ. Defaults that do not
// convert are dropped.
func flagDefault(text string, typ cty.Type) (cty.Value, bool) {
	if typ.IsListType() {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
		if text == "" {
			return cty.ListValEmpty(typ.ElementType()), true
		}
		var elems []cty.Value
		for _, part := range strings.Split(text, ",") {
			v, ok := flagDefault(part, typ.ElementType())
			if !ok {
				return cty.NilVal, false
			}
			elems = append(elems, v)
		}
		return cty.ListVal(elems), true
	}
	v, err := convert.Convert(cty.StringVal(text), typ)
	if err != nil {
		return cty.NilVal, false
	}
	return v, true
}
