package ocr

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an external command and returns its combined output.
// It exists so the pdftoppm invocation can be faked in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", name, err, string(out))
	}
	return out, nil
}
