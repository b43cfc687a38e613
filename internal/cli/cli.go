package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vk/cmdinspect/internal/app"
	"github.com/vk/cmdinspect/internal/cobrareg"
	"github.com/vk/cmdinspect/internal/hcl"
	"github.com/vk/cmdinspect/internal/lineage"
)

// Type tags of the tool's own commands, used when it inspects itself.
const (
	TypeDebugCommand = "cli.DebugCommand"
	TypeBaseCommand  = "cli.BaseCommand"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Lineage declares the ancestry of the tool's own command types.
func Lineage() *lineage.Table {
	return lineage.NewTable().
		MustDeclare(TypeDebugCommand, TypeBaseCommand).
		MustDeclare(TypeBaseCommand, cobrareg.DefaultTypeName)
}

// NewRootCommand builds the cmdinspect command tree. Output of the debug
// command goes to outW and errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "cmdinspect",
		Short: "Inspect a command registry for duplicate option declarations",
		Long: `cmdinspect inspects a command registry and its option definitions to find
commands that declare their own instance of a global option (by default
"quiet") instead of inheriting it.

The registry is read from HCL manifests given with --manifest, or is the
cmdinspect command tree itself.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a TOML settings file.")
	pf.String("log-level", app.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.String("log-format", app.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")
	pf.BoolP("quiet", "q", false, "Do not output any log message")

	debug := &cobra.Command{
		Use:     app.DefaultSelf,
		Aliases: []string{"debug"},
		Short:   "Debug command registration issues",
		Args:    cobra.NoArgs,
		Annotations: map[string]string{
			cobrareg.TypeAnnotation: TypeDebugCommand,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd)
			if err != nil {
				return err
			}
			loader := hcl.NewLoader().Watch(cfg.OptionName)
			self := cobrareg.New(root, Lineage())
			if err := app.NewApp(outW, errW, cfg, loader, self).Run(cmd.Context()); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
	f := debug.Flags()
	f.Bool("trace-quiet", false, "Trace quiet option registrations")
	f.StringSliceP("manifest", "m", nil, "HCL manifest file or directory describing the registry (repeatable).")
	f.String("prefix", app.DefaultPrefix, "Namespace prefix of the commands to list.")
	f.String("option", app.DefaultConfig().OptionName, "Name of the global option to check.")
	f.String("sentinel", "", "Base type where inheritance chains stop.")
	f.String("self", app.DefaultSelf, "Name of the command whose inheritance chain is traced.")

	root.AddCommand(debug)
	return root
}

// configFromFlags builds the app configuration: defaults, then the settings
// file, then every flag set on the command line.
func configFromFlags(cmd *cobra.Command) (*app.Config, error) {
	slog.Debug("Building configuration from flags.")
	flags := cmd.Flags()
	cfg := app.DefaultConfig()

	if path, _ := flags.GetString("config"); path != "" {
		if err := app.LoadSettings(path, &cfg); err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
		slog.Debug("Settings file applied.", "path", path)
	}

	stringFlags := map[string]*string{
		"prefix":     &cfg.Prefix,
		"option":     &cfg.OptionName,
		"sentinel":   &cfg.Sentinel,
		"self":       &cfg.Self,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("manifest") {
		cfg.Manifests, _ = flags.GetStringSlice("manifest")
	}
	cfg.TraceQuiet, _ = flags.GetBool("trace-quiet")
	cfg.Quiet, _ = flags.GetBool("quiet")

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.", "trace", validated.TraceQuiet, "manifests", validated.Manifests)
	return validated, nil
}

// Execute runs the command tree with args. Errors are always *ExitError:
// usage errors carry code 2, failed runs code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 2, Message: err.Error()}
}
