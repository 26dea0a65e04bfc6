// Package collect implements the per-section collectors. Each collector
// invokes its external tool(s) through a CommandRunner, parses the
// output into typed report records, and degrades to an explicit
// section status instead of failing the run.
package collect

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout marks a command killed by its wall-clock deadline.
var ErrTimeout = errors.New("command timed out")

// CommandRunner abstracts external tool execution so collectors can be
// unit-tested against fixture output.
type CommandRunner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// Options carries the per-run collector configuration.
type Options struct {
	TopN             int
	MinFileSizeBytes uint64
	Quick            bool
	Deep             bool
	IncludePseudo    bool
	OnlyMounts       []string
	ExtraExcludeFS   []string

	DirScanDepth    int
	CommandTimeout  time.Duration
	DirScanTimeout  time.Duration
	FileScanTimeout time.Duration
}

// DefaultOptions returns the documented defaults: top 20 entries,
// 100 MB minimum file size, single-level directory scan.
func DefaultOptions() Options {
	return Options{
		TopN:             20,
		MinFileSizeBytes: 100 << 20,
		DirScanDepth:     1,
		CommandTimeout:   10 * time.Second,
		DirScanTimeout:   60 * time.Second,
		FileScanTimeout:  120 * time.Second,
	}
}

// runTimeout executes a command under its own deadline. The partial
// output gathered before the deadline is returned alongside the error.
func runTimeout(ctx context.Context, runner CommandRunner, timeout time.Duration, command string) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runner.Run(cctx, command)
	if cctx.Err() == context.DeadlineExceeded {
		return out, ErrTimeout
	}
	return out, err
}
