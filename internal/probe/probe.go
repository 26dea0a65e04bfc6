// Package probe verifies the external tools the collectors shell out to
// before a run starts, so missing required tools fail fast with an
// actionable message instead of a half-empty report.
package probe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/collect"
)

// Tool describes one external dependency.
type Tool struct {
	Name    string
	Package string // distro package carrying it, for the install hint
}

// RequiredTools must be present for a report to be meaningful.
var RequiredTools = []Tool{
	{Name: "lsblk", Package: "util-linux"},
	{Name: "findmnt", Package: "util-linux"},
}

// OptionalTools improve coverage but their absence only degrades the
// matching sections.
var OptionalTools = []Tool{
	{Name: "du", Package: "coreutils"},
	{Name: "find", Package: "findutils"},
	{Name: "lsof", Package: "lsof"},
	{Name: "smartctl", Package: "smartmontools"},
	{Name: "journalctl", Package: "systemd"},
	{Name: "swapon", Package: "util-linux"},
}

// Result is the outcome of a preflight check.
type Result struct {
	MissingRequired []Tool
	MissingOptional []Tool
}

// Check probes every known tool with `command -v`.
func Check(ctx context.Context, runner collect.CommandRunner) Result {
	var res Result
	for _, t := range RequiredTools {
		if !present(ctx, runner, t.Name) {
			res.MissingRequired = append(res.MissingRequired, t)
		}
	}
	for _, t := range OptionalTools {
		if !present(ctx, runner, t.Name) {
			res.MissingOptional = append(res.MissingOptional, t)
		}
	}
	return res
}

func present(ctx context.Context, runner collect.CommandRunner, name string) bool {
	_, err := runner.Run(ctx, fmt.Sprintf("command -v %s >/dev/null 2>&1", name))
	return err == nil
}

// InstallHint renders a one-line apt/yum style hint for missing tools.
func InstallHint(tools []Tool) string {
	pkgs := make([]string, 0, len(tools))
	seen := make(map[string]bool)
	for _, t := range tools {
		if seen[t.Package] {
			continue
		}
		seen[t.Package] = true
		pkgs = append(pkgs, t.Package)
	}
	return fmt.Sprintf("install with: apt install %s (or the equivalent for your distro)", strings.Join(pkgs, " "))
}

// Confirm asks a yes/no question on w and reads the answer from r.
// Empty input and anything not starting with y/Y is a no.
func Confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

// Log reports missing optional tools so the run record explains any
// degraded sections.
func (r Result) Log(logger *slog.Logger) {
	for _, t := range r.MissingOptional {
		logger.Warn("optional tool missing, related sections will be degraded",
			"tool", t.Name, "package", t.Package)
	}
}
