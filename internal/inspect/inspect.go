// Package inspect detects duplicate declarations of a global option (by
// default "quiet") across the commands of a registry.
//
// Every operation is a single read-only pass over the registry. A command
// whose definition cannot be produced is reported as a Warning at its
// position and never stops the scan.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/vk/cmdinspect/internal/ctxlog"
	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
)

// DefaultOptionName is the option whose duplicates the inspector hunts for.
const DefaultOptionName = "quiet"

// ErrEmptyPrefix is returned by ListNamespacedCommands for an empty prefix.
var ErrEmptyPrefix = errors.New("namespace prefix must not be empty")

// Config configures an Inspector.
type Config struct {
	// OptionName defaults to DefaultOptionName.
	OptionName string
	// Sentinel is the base type tag where inheritance walks stop. Empty
	// means walk until a type has no parent.
	Sentinel string
	// Self is the name of the command running the inspection. Trace
	// describes its inheritance chain.
	Self string
}

// Inspector runs the registry checks.
type Inspector struct {
	optionName string
	sentinel   string
	self       string
}

// New creates an Inspector.
func New(cfg Config) *Inspector {
	name := cfg.OptionName
	if name == "" {
		name = DefaultOptionName
	}
	return &Inspector{optionName: name, sentinel: cfg.Sentinel, self: cfg.Self}
}

// OptionName returns the option the inspector looks for.
func (i *Inspector) OptionName() string {
	return i.optionName
}

// Warning is a per-command introspection failure.
type Warning struct {
	Command  string
	Position int
	Err      error
}

func (w Warning) Error() string {
	return fmt.Sprintf("command '%s': %v", w.Command, w.Err)
}

// Usage is one line of ReportQuietUsage: either the watched option of a
// command, or the warning raised while reading that command.
type Usage struct {
	Command  string
	TypeName string
	Option   *option.Option
	Warning  *Warning
}

// ConflictReport describes a command that declares its own instance of the
// watched option instead of inheriting the global one.
type ConflictReport struct {
	Command     string
	TypeName    string
	OptionName  string
	Description string
	Shortcut    string
}

// ConflictScan is the result of FindConflicts. Every command of the
// registry lands in exactly one of Scanned or Warnings.
type ConflictScan struct {
	Global    *option.Option
	Conflicts []ConflictReport
	Scanned   []string
	Warnings  []Warning
}

// ListNamespacedCommands returns the commands whose name starts with prefix,
// in registry order.
func (i *Inspector) ListNamespacedCommands(reg registry.Registry, prefix string) ([]registry.Command, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	var out []registry.Command
	for _, cmd := range reg.ListAll() {
		if strings.HasPrefix(cmd.Name(), prefix) {
			out = append(out, cmd)
		}
	}
	return out, nil
}

// ReportQuietUsage lists, for each command that declares the watched option,
// the option instance it carries. Commands that fail to produce their
// options appear as warnings in their position.
func (i *Inspector) ReportQuietUsage(ctx context.Context, cmds []registry.Command) []Usage {
	logger := ctxlog.FromContext(ctx)

	var out []Usage
	for pos, cmd := range cmds {
		opts, err := readOptions(cmd)
		if err != nil {
			w := &Warning{Command: cmd.Name(), Position: pos, Err: err}
			logger.Warn("Could not read command options.", "command", cmd.Name(), "error", err)
			out = append(out, Usage{Command: cmd.Name(), TypeName: cmd.TypeName(), Warning: w})
			continue
		}
		if o, ok := opts.Get(i.optionName); ok {
			out = append(out, Usage{Command: cmd.Name(), TypeName: cmd.TypeName(), Option: o})
		}
	}
	return out
}

// FindConflicts reports every command whose watched option is a different
// instance from the global one. Without a global option there is nothing to
// conflict with and the scan only records which commands were readable.
func (i *Inspector) FindConflicts(ctx context.Context, reg registry.Registry) (*ConflictScan, error) {
	logger := ctxlog.FromContext(ctx)

	globals, err := reg.GlobalOptions()
	if err != nil {
		return nil, fmt.Errorf("read global options of %s: %w", reg.Name(), err)
	}

	scan := &ConflictScan{}
	scan.Global, _ = globals.Get(i.optionName)

	for pos, cmd := range reg.ListAll() {
		opts, err := readOptions(cmd)
		if err != nil {
			logger.Warn("Could not read command options.", "command", cmd.Name(), "error", err)
			scan.Warnings = append(scan.Warnings, Warning{Command: cmd.Name(), Position: pos, Err: err})
			continue
		}
		scan.Scanned = append(scan.Scanned, cmd.Name())

		o, ok := opts.Get(i.optionName)
		if !ok || scan.Global == nil || option.Same(o, scan.Global) {
			continue
		}
		logger.Debug("Command declares its own option instance.", "command", cmd.Name(), "option", i.optionName)
		scan.Conflicts = append(scan.Conflicts, ConflictReport{
			Command:     cmd.Name(),
			TypeName:    cmd.TypeName(),
			OptionName:  i.optionName,
			Description: o.Description(),
			Shortcut:    o.Shortcut(),
		})
	}
	return scan, nil
}

// DescribeInheritance returns typeName and its declared ancestors, most
// derived first, stopping at the configured sentinel.
func (i *Inspector) DescribeInheritance(table *lineage.Table, typeName string) []string {
	return table.Chain(typeName, i.sentinel)
}

// readOptions isolates one command: an error or a panic from the host
// becomes an error for that command only.
func readOptions(cmd registry.Command) (opts *option.Set, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = pkgerrors.Wrap(e, "panic while reading options")
				return
			}
			err = pkgerrors.Errorf("panic while reading options: %v", r)
		}
	}()
	opts, err = cmd.Options()
	if err == nil && opts == nil {
		opts = option.NewSet(cmd.Name())
	}
	return opts, err
}
