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

// CollectLargeFiles finds files above the configured minimum size with
// a mount-bounded find traversal, then merges all mountpoints into one
// global top-N ranked by size descending. Quick mode skips the scan
// with an explicit status instead of an ambiguous empty result.
func CollectLargeFiles(ctx context.Context, runner CommandRunner, mounts []Mount, opts Options) report.LargeFileSection {
	if opts.Quick {
		return report.LargeFileSection{SectionMeta: report.Skipped("large-file scan disabled by --quick")}
	}

	var entries []report.FileEntry
	var timedOut, failed []string

	// find's +Nc predicate is strictly greater-than, so shift by one to
	// keep files exactly at the threshold.
	sizeArg := opts.MinFileSizeBytes
	if sizeArg > 0 {
		sizeArg--
	}

	for _, m := range mounts {
		cmd := fmt.Sprintf("find %q -xdev -type f -size +%dc -printf '%%s\\t%%p\\n' 2>/dev/null",
			m.Mountpoint, sizeArg)
		out, err := runTimeout(ctx, runner, opts.FileScanTimeout, cmd)
		if err != nil && !errors.Is(err, ErrTimeout) {
			failed = append(failed, m.Mountpoint)
			continue
		}
		if errors.Is(err, ErrTimeout) {
			timedOut = append(timedOut, m.Mountpoint)
		}

		perMount := ParseFindOutput(string(out), opts.MinFileSizeBytes)
		for i := range perMount {
			perMount[i].Device = m.Device
			perMount[i].Mountpoint = m.Mountpoint
			perMount[i].FSType = m.FSType
		}
		entries = append(entries, perMount...)
	}

	// Deterministic global ranking: sort after collection, never rely
	// on insertion order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SizeBytes != entries[j].SizeBytes {
			return entries[i].SizeBytes > entries[j].SizeBytes
		}
		return entries[i].Path < entries[j].Path
	})
	if opts.TopN > 0 && len(entries) > opts.TopN {
		entries = entries[:opts.TopN]
	}

	section := report.LargeFileSection{SectionMeta: report.OK(), Entries: entries}
	section.SectionMeta = scanSectionMeta("find", mounts, failed, timedOut)
	return section
}

// ParseFindOutput parses `find -printf '%s\t%p\n'` lines, dropping
// anything below the minimum size. Exported for testing.
func ParseFindOutput(output string, minSize uint64) []report.FileEntry {
	var entries []report.FileEntry
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		size, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || size < minSize {
			continue
		}
		path := strings.TrimSpace(parts[1])
		if path == "" {
			continue
		}
		entries = append(entries, report.FileEntry{Path: path, SizeBytes: size})
	}
	return entries
}
