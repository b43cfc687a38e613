package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cmdinspect/internal/ctxlog"
	"github.com/vk/cmdinspect/internal/fsutil"
	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
)

// DefaultApplicationName names the application when no manifest declares one.
const DefaultApplicationName = "application"

// DefaultTypeName is the type tag of commands that do not declare one.
const DefaultTypeName = "Command"

// Loader reads registry manifests from .hcl files.
type Loader struct {
	watch string
}

// NewLoader creates a manifest loader. Option names passed to Watch get
// debug-level notes about where their instances come from.
func NewLoader() *Loader {
	return &Loader{watch: "quiet"}
}

// Watch sets the option name the loader reports provenance for.
func (l *Loader) Watch(name string) *Loader {
	l.watch = name
	return l
}

// Load parses every manifest under paths and builds one snapshot. Blocks of
// all files are merged: types and commands in discovery order, a single
// application block across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*registry.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL manifest loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifests found in %v", paths)
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	var roots []*fileRoot
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}

	return l.build(ctx, roots)
}

func (l *Loader) build(ctx context.Context, roots []*fileRoot) (*registry.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)

	var app *applicationBlock
	table := lineage.NewTable()
	var commands []*commandBlock
	for _, root := range roots {
		for _, a := range root.Applications {
			if app != nil {
				return nil, fmt.Errorf("application %q declared more than once (also %q)", a.Name, app.Name)
			}
			app = a
		}
		for _, t := range root.Types {
			if err := table.Declare(t.Tag, t.Parent); err != nil {
				return nil, err
			}
		}
		commands = append(commands, root.Commands...)
	}

	name := DefaultApplicationName
	globals := option.NewSet(name)
	inheritByDefault := false
	if app != nil {
		name = app.Name
		var err error
		globals, err = translateOptions(ctx, app.Options, fmt.Sprintf("application '%s'", app.Name))
		if err != nil {
			return nil, err
		}
		if app.InheritGlobals != nil {
			inheritByDefault = *app.InheritGlobals
		}
	}

	snap := registry.NewSnapshot(name, globals, table).InheritGlobals(inheritByDefault)
	for _, b := range commands {
		cmd, err := translateCommand(ctx, b, globals, inheritByDefault, l.watch)
		if err != nil {
			return nil, err
		}
		if err := snap.Register(cmd); err != nil {
			return nil, err
		}
	}

	if err := snap.Validate(ctx); err != nil {
		logger.Warn("Manifest lineage is incomplete.", "error", err)
	}

	logger.Debug("HCL manifest loading complete.", "application", name, "commands", len(commands), "types", table.Len(), "globals", globals.Len())
	return snap, nil
}
