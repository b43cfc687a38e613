package inspect

import (
	"context"
	"fmt"

	"github.com/vk/cmdinspect/internal/ctxlog"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
)

// Inspection is the default-mode result.
type Inspection struct {
	Prefix   string
	Commands []registry.Command
	Usage    []Usage
	Globals  []*option.Option
	Scan     *ConflictScan
}

// Inspect lists the commands under prefix, their use of the watched option,
// the global options of the application and the conflict scan.
func (i *Inspector) Inspect(ctx context.Context, reg registry.Registry, prefix string) (*Inspection, error) {
	cmds, err := i.ListNamespacedCommands(reg, prefix)
	if err != nil {
		return nil, err
	}
	globals, err := reg.GlobalOptions()
	if err != nil {
		return nil, fmt.Errorf("read global options of %s: %w", reg.Name(), err)
	}
	scan, err := i.FindConflicts(ctx, reg)
	if err != nil {
		return nil, err
	}
	return &Inspection{
		Prefix:   prefix,
		Commands: cmds,
		Usage:    i.ReportQuietUsage(ctx, cmds),
		Globals:  globals.All(),
		Scan:     scan,
	}, nil
}

// ProbeResult tells whether a freshly constructed command with no
// declarations of its own already carries the watched option.
type ProbeResult struct {
	// Supported is false when the registry cannot build probe commands.
	Supported bool
	Option    *option.Option
	// FromDefaults is true when the option was attached by the construction
	// step rather than declared.
	FromDefaults bool
}

// TraceResult is the four-step trace of where the watched option comes from.
type TraceResult struct {
	OptionName  string
	Probe       ProbeResult
	Application string
	Global      *option.Option
	Scan        *ConflictScan
	Self        string
	SelfType    string
	// Chain is the inheritance chain of SelfType, most derived first. It is
	// empty when Self is not registered.
	Chain []string
}

// Trace runs the four trace steps: probe a minimal command, check the
// application's global option, scan for conflicts and walk the inheritance
// chain of the inspecting command. A definition conflict raised while
// building the probe aborts the trace.
func (i *Inspector) Trace(ctx context.Context, reg registry.Registry) (*TraceResult, error) {
	logger := ctxlog.FromContext(ctx)
	res := &TraceResult{OptionName: i.optionName, Application: reg.Name(), Self: i.self}

	if p, ok := reg.(registry.Prober); ok {
		probe, err := p.ProbeCommand()
		if err != nil {
			return nil, fmt.Errorf("build probe command: %w", err)
		}
		opts, err := readOptions(probe)
		if err != nil {
			return nil, fmt.Errorf("read probe command options: %w", err)
		}
		res.Probe.Supported = true
		res.Probe.Option, _ = opts.Get(i.optionName)
		res.Probe.FromDefaults = opts.FromDefaults(i.optionName)
		if res.Probe.FromDefaults {
			logger.Debug("Probe option supplied by application defaults.", "option", i.optionName)
		}
	} else {
		logger.Debug("Registry cannot build probe commands.", "application", reg.Name())
	}

	globals, err := reg.GlobalOptions()
	if err != nil {
		return nil, fmt.Errorf("read global options of %s: %w", reg.Name(), err)
	}
	res.Global, _ = globals.Get(i.optionName)

	res.Scan, err = i.FindConflicts(ctx, reg)
	if err != nil {
		return nil, err
	}

	if i.self != "" {
		if cmd, ok := registry.Find(reg, i.self); ok {
			res.SelfType = cmd.TypeName()
			res.Chain = i.DescribeInheritance(reg.Lineage(), res.SelfType)
		} else {
			logger.Debug("Inspecting command is not registered.", "command", i.self)
		}
	}
	return res, nil
}
