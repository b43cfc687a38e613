package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/cmdinspect/internal/ctxlog"
)

// Validate checks that the snapshot is coherent with its lineage table. It
// collects every problem before failing. Commands whose options cannot be
// read are not a validation problem; the inspector reports them itself.
func (s *Snapshot) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, cmd := range s.commands {
		if strings.TrimSpace(cmd.Name()) == "" {
			errs = append(errs, "command with an empty name")
			continue
		}

		typeName := cmd.TypeName()
		if typeName == "" {
			logger.Debug("Command has no type tag; inheritance will not be described.", "command", cmd.Name())
			continue
		}
		if s.lineage.Len() > 0 && !s.lineage.Declared(typeName) {
			errs = append(errs, fmt.Sprintf("command '%s': type '%s' is not declared in the lineage table", cmd.Name(), typeName))
		}
	}

	for _, o := range s.globals.All() {
		if strings.TrimSpace(o.Name()) == "" {
			errs = append(errs, fmt.Sprintf("application '%s': global option with an empty name", s.name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
