// Package postprocess runs an optional external command over a finished
// analysis directory, e.g. a script that merges the generated workbooks.
package postprocess

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Hook runs command with the analysis directory appended as last argument.
type Hook struct {
	args   []string
	logger *zap.Logger
}

// NewHook splits command on whitespace. An empty command yields a hook that
// does nothing.
func NewHook(command string, logger *zap.Logger) *Hook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hook{args: strings.Fields(command), logger: logger}
}

func (h *Hook) Enabled() bool {
	return len(h.args) > 0
}

// Run executes the command and logs its output.
func (h *Hook) Run(ctx context.Context, dir string) error {
	if !h.Enabled() {
		return nil
	}
	args := append(append([]string{}, h.args[1:]...), dir)
	cmd := exec.CommandContext(ctx, h.args[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		h.logger.Error("post-processing failed",
			zap.String("command", h.args[0]),
			zap.String("dir", dir),
			zap.String("stderr", stderr.String()))
		return eris.Wrapf(err, "postprocess: %s failed for %s: %s", h.args[0], dir, stderr.String())
	}

	h.logger.Info("post-processing complete",
		zap.String("command", h.args[0]),
		zap.String("dir", dir),
		zap.String("stdout", strings.TrimSpace(stdout.String())))
	return nil
}
