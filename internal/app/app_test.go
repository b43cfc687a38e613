package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdinspect/internal/hcl"
	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
	"github.com/vk/cmdinspect/internal/testutil"
)

const manifest = `
application "artisan" {
  inherit_globals = true

  option "quiet" {
    shortcut    = "q"
    description = "Do not output any message"
  }
}

type "DebugCommand" { parent = "BaseCommand" }
type "BaseCommand"  { parent = "Command" }

command "plesk-ext-laravel:debug" {
  type = "DebugCommand"
}

command "plesk-ext-laravel:sync" {
  type = "BaseCommand"

  option "quiet" {
    description = "Sync without output"
  }
}

command "other:cmd" {
  type            = "Command"
  inherit_globals = false
}
`

// setupApp builds an App writing report text to out and everything else to
// errOut.
func setupApp(t *testing.T, cfg Config, self registry.Registry) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()
	out, errOut := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	return NewApp(out, errOut, validated, hcl.NewLoader(), self), out, errOut
}

func TestRun_InspectManifests(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"artisan.hcl": manifest})
	cfg := DefaultConfig()
	cfg.Manifests = []string{dir}
	a, out, errOut := setupApp(t, cfg, nil)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "=== Debugging Command Registration ===")
	assert.Contains(t, out.String(), "  - plesk-ext-laravel:debug: DebugCommand\n")
	assert.Contains(t, out.String(), "  - plesk-ext-laravel:sync (BaseCommand)\n")
	assert.NotContains(t, out.String(), "other:cmd")
	assert.Contains(t, errOut.String(), "Found commands with different quiet options:")
}

func TestRun_TraceManifests(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"artisan.hcl": manifest})
	cfg := DefaultConfig()
	cfg.Manifests = []string{dir}
	cfg.TraceQuiet = true
	cfg.Sentinel = "BaseCommand"
	a, out, _ := setupApp(t, cfg, nil)

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "=== Tracing Quiet Option Registrations ===")
	assert.Contains(t, out.String(), "   Minimal command has quiet option: YES\n")
	assert.Contains(t, out.String(), "   - DebugCommand\n     - BaseCommand\n\n")
	assert.Contains(t, out.String(), "=== Trace Complete ===")
}

func TestRun_ManifestDefinitionConflictIsExplained(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"broken.hcl": `
command "app:sync" {
  option "quiet" {}
  option "quiet" {}
}
`})
	cfg := DefaultConfig()
	cfg.Manifests = []string{dir}
	a, out, errOut := setupApp(t, cfg, nil)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Definition conflict caught:")
	assert.Contains(t, out.String(), "Stack trace (top 5 frames):")
}

func TestRun_UnreadableManifestsFail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Manifests = []string{t.TempDir() + "/missing"}
	a, _, _ := setupApp(t, cfg, nil)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load manifests")
}

func TestRun_NoRegistry(t *testing.T) {
	a, _, _ := setupApp(t, DefaultConfig(), nil)
	require.ErrorIs(t, a.Run(context.Background()), ErrNoRegistry)
}

func TestRun_SelfRegistry(t *testing.T) {
	global := testutil.Quiet()
	table := lineage.NewTable().MustDeclare("DebugCommand", "")
	self := registry.NewSnapshot("cmdinspect", testutil.Options("cmdinspect", global), table)
	require.NoError(t, self.Register(registry.NewStaticCommand(DefaultSelf, "DebugCommand", testutil.Options(DefaultSelf, global))))

	a, out, _ := setupApp(t, DefaultConfig(), self)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "  - plesk-ext-laravel:debug: DebugCommand\n")
	assert.Contains(t, out.String(), "No conflicting quiet options found.")
}

func TestRun_RecoversPanicsAndUnexpectedErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		reg  registry.Registry
		want string
	}{
		{
			name: "global options unavailable",
			reg:  &testutil.FakeRegistry{AppName: "artisan", GlobalErr: errors.New("not booted")},
			want: "Unexpected error: read global options of artisan: not booted",
		},
		{
			name: "definition conflict from the host",
			reg: &testutil.FakeRegistry{
				AppName:   "artisan",
				GlobalErr: option.NewDefinitionConflict("artisan", "quiet", "an option with this name already exists"),
			},
			want: "Definition conflict caught: artisan: option \"quiet\"",
		},
		{
			name: "panicking registry",
			reg: &panickingRegistry{
				FakeRegistry: &testutil.FakeRegistry{AppName: "artisan", Globals: testutil.Options("artisan")},
			},
			want: "Unexpected error: panic: listing exploded",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// --- Arrange ---
			a, _, errOut := setupApp(t, DefaultConfig(), tc.reg)

			// --- Act ---
			err := a.Run(context.Background())

			// --- Assert ---
			require.NoError(t, err)
			assert.Contains(t, errOut.String(), tc.want)
		})
	}
}

type panickingRegistry struct {
	*testutil.FakeRegistry
}

func (p *panickingRegistry) ListAll() []registry.Command {
	panic("listing exploded")
}

func TestRun_QuietSilencesLogs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Quiet = true
	reg := &testutil.FakeRegistry{
		AppName:  "artisan",
		Globals:  testutil.Options("artisan"),
		Commands: []registry.Command{&testutil.FakeCommand{CommandName: "plesk-ext-laravel:x", Err: errors.New("nope")}},
	}
	a, _, errOut := setupApp(t, cfg, reg)

	require.NoError(t, a.Run(context.Background()))
	assert.NotContains(t, errOut.String(), "level=")
	assert.Contains(t, errOut.String(), "Error checking command 'plesk-ext-laravel:x'")
}
