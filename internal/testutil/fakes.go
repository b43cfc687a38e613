package testutil

import (
	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
)

// FakeCommand is a registry.Command whose Options can fail or panic on demand.
type FakeCommand struct {
	CommandName string
	Type        string
	Set         *option.Set
	Err         error
	PanicWith   any
}

func (c *FakeCommand) Name() string     { return c.CommandName }
func (c *FakeCommand) TypeName() string { return c.Type }

func (c *FakeCommand) Options() (*option.Set, error) {
	if c.PanicWith != nil {
		panic(c.PanicWith)
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Set, nil
}

// FakeRegistry is a registry.Registry over a fixed command list. It does not
// implement registry.Prober.
type FakeRegistry struct {
	AppName   string
	Globals   *option.Set
	GlobalErr error
	Commands  []registry.Command
	Table     *lineage.Table
}

func (r *FakeRegistry) Name() string { return r.AppName }

func (r *FakeRegistry) GlobalOptions() (*option.Set, error) {
	if r.GlobalErr != nil {
		return nil, r.GlobalErr
	}
	return r.Globals, nil
}

func (r *FakeRegistry) ListAll() []registry.Command { return r.Commands }
func (r *FakeRegistry) Lineage() *lineage.Table     { return r.Table }

// Quiet declares a fresh "quiet" option shaped like a framework's global one.
func Quiet() *option.Option {
	return option.New(option.Spec{Name: "quiet", Shortcut: "q", Description: "Do not output any message"})
}

// Options builds a set from opts, panicking on conflicts. For fixtures only.
func Options(owner string, opts ...*option.Option) *option.Set {
	set := option.NewSet(owner)
	for _, o := range opts {
		if err := set.Add(o); err != nil {
			panic(err)
		}
	}
	return set
}
