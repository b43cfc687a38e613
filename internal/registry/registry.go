package registry

import (
	"errors"
	"fmt"

	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
)

// ErrDuplicateCommand is returned when a command name is registered twice.
var ErrDuplicateCommand = errors.New("command already registered")

// Command is a registered command as seen by the inspector.
type Command interface {
	Name() string
	// TypeName is the type tag of the command, looked up in the lineage table.
	TypeName() string
	// Options returns the effective option set of the command. It may fail
	// when the host cannot produce the definition.
	Options() (*option.Set, error)
}

// Application is the hosting application.
type Application interface {
	Name() string
	GlobalOptions() (*option.Set, error)
}

// Registry is a read-only view of the registered commands.
type Registry interface {
	Application
	// ListAll returns every command in registry iteration order.
	ListAll() []Command
	Lineage() *lineage.Table
}

// Prober is implemented by registries that can construct a throwaway
// minimal command the same way a real one would be constructed, without
// registering it.
type Prober interface {
	ProbeCommand() (Command, error)
}

// ProbeName is the name given to probe commands.
const ProbeName = "probe:minimal"

// StaticCommand is a Command whose option set is fixed at construction.
type StaticCommand struct {
	name     string
	typeName string
	options  *option.Set
}

// NewStaticCommand returns a command with a fixed option set. A nil set is
// treated as empty.
func NewStaticCommand(name, typeName string, options *option.Set) *StaticCommand {
	if options == nil {
		options = option.NewSet(name)
	}
	return &StaticCommand{name: name, typeName: typeName, options: options}
}

func (c *StaticCommand) Name() string                  { return c.name }
func (c *StaticCommand) TypeName() string              { return c.typeName }
func (c *StaticCommand) Options() (*option.Set, error) { return c.options, nil }

// Snapshot is an immutable-after-build Registry held in memory.
type Snapshot struct {
	name           string
	globals        *option.Set
	commands       []Command
	index          map[string]int
	lineage        *lineage.Table
	inheritGlobals bool
}

// NewSnapshot creates an empty snapshot for the named application. A nil
// globals set or lineage table is treated as empty.
func NewSnapshot(name string, globals *option.Set, table *lineage.Table) *Snapshot {
	if globals == nil {
		globals = option.NewSet(name)
	}
	if table == nil {
		table = lineage.NewTable()
	}
	return &Snapshot{
		name:    name,
		globals: globals,
		index:   make(map[string]int),
		lineage: table,
	}
}

// InheritGlobals sets whether a freshly constructed command receives the
// global options as defaults. It only affects ProbeCommand.
func (s *Snapshot) InheritGlobals(v bool) *Snapshot {
	s.inheritGlobals = v
	return s
}

// Register appends cmd to the snapshot.
func (s *Snapshot) Register(cmd Command) error {
	if _, exists := s.index[cmd.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, cmd.Name())
	}
	s.index[cmd.Name()] = len(s.commands)
	s.commands = append(s.commands, cmd)
	return nil
}

// Get returns the command registered under name.
func (s *Snapshot) Get(name string) (Command, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.commands[i], true
}

func (s *Snapshot) Name() string                        { return s.name }
func (s *Snapshot) GlobalOptions() (*option.Set, error) { return s.globals, nil }
func (s *Snapshot) Lineage() *lineage.Table             { return s.lineage }

// ListAll returns the commands in registration order.
func (s *Snapshot) ListAll() []Command {
	out := make([]Command, len(s.commands))
	copy(out, s.commands)
	return out
}

// ProbeCommand builds a command with no declarations of its own.
func (s *Snapshot) ProbeCommand() (Command, error) {
	var defaults *option.Set
	if s.inheritGlobals {
		defaults = s.globals
	}
	opts, err := option.Merge(ProbeName, nil, defaults)
	if err != nil {
		return nil, err
	}
	return NewStaticCommand(ProbeName, "", opts), nil
}

// Find returns the command registered under name in any Registry.
func Find(reg Registry, name string) (Command, bool) {
	if s, ok := reg.(*Snapshot); ok {
		return s.Get(name)
	}
	for _, cmd := range reg.ListAll() {
		if cmd.Name() == name {
			return cmd, true
		}
	}
	return nil, false
}
