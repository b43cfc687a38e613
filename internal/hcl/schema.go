package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes every top-level block a manifest file may contain.
type fileRoot struct {
	Applications []*applicationBlock `hcl:"application,block"`
	Types        []*typeBlock        `hcl:"type,block"`
	Commands     []*commandBlock     `hcl:"command,block"`
	Remain       hcl.Body            `hcl:",remain"`
}

// applicationBlock is the hosting application and its global options.
type applicationBlock struct {
	Name           string         `hcl:"name,label"`
	InheritGlobals *bool          `hcl:"inherit_globals,optional"`
	Options        []*optionBlock `hcl:"option,block"`
}

// typeBlock declares one row of the lineage table.
type typeBlock struct {
	Tag    string `hcl:"tag,label"`
	Parent string `hcl:"parent,optional"`
}

// commandBlock is a registered command.
type commandBlock struct {
	Name           string         `hcl:"name,label"`
	Type           string         `hcl:"type,optional"`
	InheritGlobals *bool          `hcl:"inherit_globals,optional"`
	Options        []*optionBlock `hcl:"option,block"`
}

// optionBlock declares a single option instance.
type optionBlock struct {
	Name        string         `hcl:"name,label"`
	Shortcut    string         `hcl:"shortcut,optional"`
	Description string         `hcl:"description,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
}
