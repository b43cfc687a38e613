package report

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdinspect/internal/inspect"
	"github.com/vk/cmdinspect/internal/lineage"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
	"github.com/vk/cmdinspect/internal/testutil"
)

func artisan() (*registry.Snapshot, *option.Option) {
	global := testutil.Quiet()
	table := lineage.NewTable().
		MustDeclare("DebugCommand", "BaseCommand").
		MustDeclare("BaseCommand", "Command")
	snap := registry.NewSnapshot("artisan", testutil.Options("artisan", global), table).InheritGlobals(true)
	_ = snap.Register(registry.NewStaticCommand("plesk-ext-laravel:debug", "DebugCommand", testutil.Options("d", global)))
	_ = snap.Register(registry.NewStaticCommand("plesk-ext-laravel:sync", "BaseCommand",
		testutil.Options("s", option.New(option.Spec{Name: "quiet", Shortcut: "s", Description: "Sync quietly"}))))
	_ = snap.Register(registry.NewStaticCommand("other:cmd", "Command", nil))
	return snap, global
}

func TestRenderInspection(t *testing.T) {
	// --- Arrange ---
	snap, _ := artisan()
	res, err := inspect.New(inspect.Config{}).Inspect(context.Background(), snap, "plesk-ext-laravel:")
	require.NoError(t, err)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	RenderInspection(NewPrinter(out, errOut), res, "quiet")

	// --- Assert ---
	assert.Contains(t, out.String(), "  - plesk-ext-laravel:debug: DebugCommand\n")
	assert.Contains(t, out.String(), "  - plesk-ext-laravel:sync: BaseCommand\n")
	assert.NotContains(t, out.String(), "other:cmd")
	assert.Contains(t, out.String(), "       Description: Sync quietly\n")
	assert.Contains(t, out.String(), "Global application options:\n  - quiet (q)\n")
	assert.Contains(t, out.String(), "  - plesk-ext-laravel:sync (BaseCommand)\n    Description: Sync quietly\n    Shortcut: s\n")

	assert.Equal(t, 2, strings.Count(errOut.String(), "Has 'quiet' option!"))
	assert.Contains(t, errOut.String(), "Found commands with different quiet options:")
}

func TestRenderInspection_WarningsAndEmptyNamespace(t *testing.T) {
	reg := &testutil.FakeRegistry{
		AppName: "artisan",
		Globals: testutil.Options("artisan", testutil.Quiet()),
		Commands: []registry.Command{
			&testutil.FakeCommand{CommandName: "app:broken", Type: "Broken", PanicWith: "flag redefined: quiet"},
		},
	}
	in := inspect.New(inspect.Config{})

	res, err := in.Inspect(context.Background(), reg, "app:")
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	RenderInspection(NewPrinter(buf, buf), res, "quiet")
	assert.Contains(t, buf.String(), "    Error checking command 'app:broken': panic while reading options: flag redefined: quiet\n")
	assert.Contains(t, buf.String(), "No conflicting quiet options found.")

	res, err = in.Inspect(context.Background(), reg, "make:")
	require.NoError(t, err)
	buf.Reset()
	RenderInspection(NewPrinter(buf, buf), res, "quiet")
	assert.Contains(t, buf.String(), `(none under "make:")`)
}

func TestRenderTrace(t *testing.T) {
	// --- Arrange ---
	snap, _ := artisan()
	in := inspect.New(inspect.Config{Sentinel: "Command", Self: "plesk-ext-laravel:debug"})
	res, err := in.Trace(context.Background(), snap)
	require.NoError(t, err)
	buf := &bytes.Buffer{}

	// --- Act ---
	RenderTrace(NewPrinter(buf, buf), res)

	// --- Assert ---
	want := []string{
		"=== Tracing Quiet Option Registrations ===",
		"1. Checking default command options:",
		"   Minimal command has quiet option: YES",
		"   - Shortcut: q",
		"   - Source: application defaults",
		"2. Checking when quiet option is added:",
		"   Application: artisan",
		"   Application has global quiet: YES",
		"3. Analyzing potential conflicts:",
		"   Found commands with different quiet options:",
		"   - plesk-ext-laravel:sync (BaseCommand)",
		"4. Checking command inheritance:",
		"   plesk-ext-laravel:debug inheritance chain:",
		"   - DebugCommand",
		"     - BaseCommand",
		"       - Command",
		"=== Trace Complete ===",
		"3. Verify no command is trying to override the global quiet option",
	}
	got := buf.String()
	last := -1
	for _, line := range want {
		idx := strings.Index(got, line+"\n")
		require.GreaterOrEqual(t, idx, 0, "missing line %q in:\n%s", line, got)
		assert.Greater(t, idx, last, "line %q out of order", line)
		last = idx
	}
}

func TestRenderTrace_NoProbeNoSelf(t *testing.T) {
	res := &inspect.TraceResult{
		OptionName:  "quiet",
		Application: "artisan",
		Scan:        &inspect.ConflictScan{},
		Self:        "plesk-ext-laravel:debug",
	}
	buf := &bytes.Buffer{}
	RenderTrace(NewPrinter(buf, buf), res)

	assert.Contains(t, buf.String(), "Registry cannot build a minimal command, skipped.")
	assert.Contains(t, buf.String(), "Application has global quiet: NO")
	assert.Contains(t, buf.String(), "Command 'plesk-ext-laravel:debug' is not registered")
}

var frameLine = regexp.MustCompile(`^  #\d+ [^/\s]+:\d+ \S+\(\)$`)

func TestExplainConflict(t *testing.T) {
	// --- Arrange ---
	set := option.NewSet("command 'app:sync'")
	require.NoError(t, set.Add(option.New(option.Spec{Name: "quiet"})))
	err := set.Add(option.New(option.Spec{Name: "quiet"}))
	require.Error(t, err)
	wrapped := fmt.Errorf("load manifests: %w", err)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	Explain(NewPrinter(out, errOut), wrapped)

	// --- Assert ---
	assert.Contains(t, errOut.String(), `Definition conflict caught: command 'app:sync': option "quiet"`)
	assert.Contains(t, out.String(), "This typically means there's a conflict in option registration.")
	assert.Contains(t, out.String(), "Possible causes:")
	assert.Contains(t, out.String(), "Error type: *option.DefinitionConflictError")
	assert.Contains(t, out.String(), "Owner: command 'app:sync'")
	assert.Contains(t, out.String(), "Option: quiet")

	_, frames, found := strings.Cut(out.String(), "Stack trace (top 5 frames):\n")
	require.True(t, found)
	lines := strings.Split(strings.TrimRight(frames, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), MaxConflictFrames)
	for _, l := range lines {
		assert.Regexp(t, frameLine, l)
	}
	assert.True(t, strings.HasPrefix(lines[0], "  #0 "))
	assert.Contains(t, frames, "set.go:")
	assert.Contains(t, frames, "Set::Add()")
}

func TestExplainUnexpected(t *testing.T) {
	buf := &bytes.Buffer{}
	err := pkgerrors.WithMessage(pkgerrors.New("disk on fire"), "read settings")

	Explain(NewPrinter(buf, buf), err)

	assert.Contains(t, buf.String(), "Unexpected error: read settings: disk on fire\n")
	assert.Contains(t, buf.String(), "Stack trace:\n")
	assert.Contains(t, buf.String(), "TestExplainUnexpected")
	assert.Contains(t, buf.String(), "report_test.go:")

	buf.Reset()
	ExplainUnexpected(NewPrinter(buf, buf), fmt.Errorf("plain"))
	assert.Contains(t, buf.String(), "Stack trace: unavailable")
}

func TestFormatFrames_Limit(t *testing.T) {
	st := deepStack(8)
	require.Greater(t, len(st), MaxConflictFrames)

	lines := FormatFrames(st, MaxConflictFrames)
	require.Len(t, lines, MaxConflictFrames)
	for i, l := range lines {
		assert.True(t, strings.HasPrefix(l, fmt.Sprintf("  #%d report_test.go:", i)), l)
	}
}

func deepStack(n int) pkgerrors.StackTrace {
	if n == 0 {
		return pkgerrors.New("").(stackTracer).StackTrace()
	}
	return deepStack(n - 1)
}

func TestFrameFunc(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want string
	}{
		{in: "(*Set).Add", want: "Set::Add"},
		{in: "(Set).Add", want: "Set::Add"},
		{in: "Set.Add", want: "Set::Add"},
		{in: "Merge", want: "Merge"},
		{in: "Merge.func1", want: "Merge.func1"},
		{in: "(*Loader).build.func2", want: "Loader::build.func2"},
		{in: "(*broken", want: "(*broken"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FrameFunc(tc.in))
		})
	}
}
