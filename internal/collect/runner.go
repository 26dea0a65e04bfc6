package collect

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// LocalRunner executes commands on the local host via /bin/sh.
type LocalRunner struct{}

// Run executes a command locally. Stdout is returned even on failure so
// callers can salvage partial output from a killed scan.
func (r LocalRunner) Run(ctx context.Context, command string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.Bytes(), fmt.Errorf("command %q failed: %s", command, msg)
	}
	return stdout.Bytes(), nil
}
