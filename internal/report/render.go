package report

import (
	"strings"

	"github.com/vk/cmdinspect/internal/inspect"
)

// Header prints the banner shown at the start of every debug run.
func Header(p *Printer) {
	p.Info("=== Debugging Command Registration ===")
}

// RenderInspection prints the default-mode report.
func RenderInspection(p *Printer, res *inspect.Inspection, optionName string) {
	usage := make(map[string]inspect.Usage, len(res.Usage))
	for _, u := range res.Usage {
		usage[u.Command] = u
	}

	p.Blank()
	p.Line("Registered commands:")
	if len(res.Commands) == 0 {
		p.Line("  (none under %q)", res.Prefix)
	}
	for _, cmd := range res.Commands {
		p.Line("  - %s: %s", cmd.Name(), cmd.TypeName())
		u, ok := usage[cmd.Name()]
		switch {
		case !ok:
		case u.Warning != nil:
			p.Warn("    Error checking command '%s': %v", u.Command, u.Warning.Err)
		case u.Option != nil:
			p.Warn("    ⚠️  Has '%s' option!", optionName)
			p.Line("       Description: %s", u.Option.Description())
		}
	}

	p.Blank()
	p.Line("Global application options:")
	for _, o := range res.Globals {
		p.Line("  - %s (%s)", o.Name(), o.Shortcut())
	}

	p.Blank()
	p.Line("Conflicting '%s' options:", optionName)
	renderScan(p, res.Scan, optionName, "  ")
}

// RenderTrace prints the four trace steps and the fix tips.
func RenderTrace(p *Printer, res *inspect.TraceResult) {
	name := res.OptionName

	p.Info("=== Tracing %s Option Registrations ===", titleCase(name))
	p.Blank()

	p.Line("1. Checking default command options:")
	switch {
	case !res.Probe.Supported:
		p.Line("   Registry cannot build a minimal command, skipped.")
	default:
		p.Line("   Minimal command has %s option: %s", name, yesNo(res.Probe.Option != nil))
		if o := res.Probe.Option; o != nil {
			p.Line("   - Shortcut: %s", o.Shortcut())
			p.Line("   - Description: %s", o.Description())
			if res.Probe.FromDefaults {
				p.Line("   - Source: application defaults")
			} else {
				p.Line("   - Source: declared by the command")
			}
		}
	}

	p.Blank()
	p.Line("2. Checking when %s option is added:", name)
	p.Line("   Application: %s", res.Application)
	p.Line("   Application has global %s: %s", name, yesNo(res.Global != nil))

	p.Blank()
	p.Line("3. Analyzing potential conflicts:")
	renderScan(p, res.Scan, name, "   ")

	p.Blank()
	p.Line("4. Checking command inheritance:")
	if len(res.Chain) == 0 {
		p.Line("   Command '%s' is not registered, no chain to show.", res.Self)
	} else {
		p.Line("   %s inheritance chain:", res.Self)
		indent := "   "
		for _, tag := range res.Chain {
			p.Line("%s- %s", indent, tag)
			indent += "  "
		}
	}

	p.Blank()
	p.Info("=== Trace Complete ===")
	p.Blank()
	p.Line("To fix the \"%s option already exists\" error:", name)
	p.Line("1. Ensure commands don't manually add a %s option", name)
	p.Line("2. Check if any hooks are modifying command definitions")
	p.Line("3. Verify no command is trying to override the global %s option", name)
}

func renderScan(p *Printer, scan *inspect.ConflictScan, name, indent string) {
	for _, w := range scan.Warnings {
		p.Warn("%sError checking command '%s': %v", indent, w.Command, w.Err)
	}
	if len(scan.Conflicts) == 0 {
		p.Info("%sNo conflicting %s options found.", indent, name)
		return
	}
	p.Warn("%sFound commands with different %s options:", indent, name)
	for _, c := range scan.Conflicts {
		p.Line("%s- %s (%s)", indent, c.Command, c.TypeName)
		p.Line("%s  Description: %s", indent, c.Description)
		p.Line("%s  Shortcut: %s", indent, c.Shortcut)
	}
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
