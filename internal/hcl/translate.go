// This file translates decoded manifest blocks into option sets and
// registry commands.

package hcl

import (
	"context"
	"fmt"

	"github.com/vk/cmdinspect/internal/ctxlog"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translateOption declares a new option instance from its block.
func translateOption(ctx context.Context, b *optionBlock, owner string) (*option.Option, error) {
	typ, err := typeExprToCtyType(ctx, b.Type)
	if err != nil {
		return nil, fmt.Errorf("in %s, option '%s': %w", owner, b.Name, err)
	}

	var def *cty.Value
	if b.Default != nil && !b.Default.IsNull() {
		converted, err := convert.Convert(*b.Default, typ)
		if err != nil {
			return nil, fmt.Errorf("in %s, option '%s': default is not a valid %s: %w", owner, b.Name, typ.FriendlyName(), err)
		}
		def = &converted
	}

	return option.New(option.Spec{
		Name:        b.Name,
		Shortcut:    b.Shortcut,
		Description: b.Description,
		Type:        typ,
		Default:     def,
	}), nil
}

// translateOptions declares every option block of one owner into a set.
func translateOptions(ctx context.Context, blocks []*optionBlock, owner string) (*option.Set, error) {
	set := option.NewSet(owner)
	for _, b := range blocks {
		o, err := translateOption(ctx, b, owner)
		if err != nil {
			return nil, err
		}
		if err := set.Add(o); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// translateCommand builds the effective option set of a command, layering
// the application's options underneath when the command inherits them.
func translateCommand(ctx context.Context, b *commandBlock, globals *option.Set, inheritByDefault bool, watch string) (registry.Command, error) {
	logger := ctxlog.FromContext(ctx)

	declared, err := translateOptions(ctx, b.Options, fmt.Sprintf("command '%s'", b.Name))
	if err != nil {
		return nil, err
	}

	inherit := inheritByDefault
	if b.InheritGlobals != nil {
		inherit = *b.InheritGlobals
	}

	var defaults *option.Set
	if inherit {
		defaults = globals
	}
	effective, err := option.Merge(b.Name, declared, defaults)
	if err != nil {
		return nil, err
	}

	if effective.FromDefaults(watch) {
		logger.Debug("Option supplied by the application defaults, not declared by the command.", "command", b.Name, "option", watch)
	} else if declared.Has(watch) && globals.Has(watch) {
		logger.Debug("Command declares its own instance of a global option.", "command", b.Name, "option", watch)
	}

	typeName := b.Type
	if typeName == "" {
		typeName = DefaultTypeName
	}
	return registry.NewStaticCommand(b.Name, typeName, effective), nil
}
