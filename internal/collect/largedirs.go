package collect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// CollectLargeDirs ranks the largest directories per mountpoint using a
// depth-limited du scan. Each mountpoint gets its own wall-clock
// timeout; a timed-out mount contributes whatever du printed before the
// deadline and marks the section degraded rather than aborting the run.
func CollectLargeDirs(ctx context.Context, runner CommandRunner, mounts []Mount, opts Options) report.LargeDirSection {
	var entries []report.DirEntry
	var timedOut, failed []string

	for _, m := range mounts {
		cmd := fmt.Sprintf("du -x -B1 --max-depth=%d %q 2>/dev/null", opts.DirScanDepth, m.Mountpoint)
		out, err := runTimeout(ctx, runner, opts.DirScanTimeout, cmd)
		if err != nil && !errors.Is(err, ErrTimeout) {
			failed = append(failed, m.Mountpoint)
			continue
		}
		if errors.Is(err, ErrTimeout) {
			timedOut = append(timedOut, m.Mountpoint)
		}

		perMount := ParseDuOutput(string(out), m.Mountpoint)
		for i := range perMount {
			perMount[i].Device = m.Device
			perMount[i].FSType = m.FSType
		}
		sort.SliceStable(perMount, func(i, j int) bool {
			return perMount[i].SizeBytes > perMount[j].SizeBytes
		})
		if opts.TopN > 0 && len(perMount) > opts.TopN {
			perMount = perMount[:opts.TopN]
		}
		entries = append(entries, perMount...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Mountpoint != entries[j].Mountpoint {
			return entries[i].Mountpoint < entries[j].Mountpoint
		}
		if entries[i].SizeBytes != entries[j].SizeBytes {
			return entries[i].SizeBytes > entries[j].SizeBytes
		}
		return entries[i].Path < entries[j].Path
	})

	section := report.LargeDirSection{SectionMeta: report.OK(), Entries: entries}
	section.SectionMeta = scanSectionMeta("du", mounts, failed, timedOut)
	return section
}

// scanSectionMeta classifies a per-mount scan outcome. A tool that
// failed on every mount is unavailable, so an empty result is never
// mistaken for "nothing found"; partial failures or timeouts degrade.
func scanSectionMeta(tool string, mounts []Mount, failed, timedOut []string) report.SectionMeta {
	if len(mounts) > 0 && len(failed) == len(mounts) {
		return report.Unavailable(tool + " failed for every mount")
	}
	var notes []string
	if len(failed) > 0 {
		notes = append(notes, tool+" failed for "+strings.Join(failed, ", "))
	}
	if len(timedOut) > 0 {
		notes = append(notes, "scan timed out for "+strings.Join(timedOut, ", "))
	}
	if len(notes) > 0 {
		return report.Degraded(strings.Join(notes, "; "))
	}
	return report.OK()
}

// ParseDuOutput parses `du -B1` size/path lines, skipping the summary
// line for the scan root itself. Exported for testing.
func ParseDuOutput(output, root string) []report.DirEntry {
	var entries []report.DirEntry
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		size, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			continue
		}
		path := strings.TrimSpace(parts[1])
		if path == "" || path == root {
			continue
		}
		entries = append(entries, report.DirEntry{
			Path:       path,
			SizeBytes:  size,
			Mountpoint: root,
		})
	}
	return entries
}
