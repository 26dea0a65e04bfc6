package collect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// CollectBtrfs gathers space accounting for every mounted btrfs
// filesystem. Hosts without btrfs mounts are "not present" and the
// btrfs tool is never invoked for them.
func CollectBtrfs(ctx context.Context, runner CommandRunner, mounts []Mount, opts Options) report.BtrfsSection {
	var targets []Mount
	for _, m := range mounts {
		if m.FSType == "btrfs" {
			targets = append(targets, m)
		}
	}
	if len(targets) == 0 {
		return report.BtrfsSection{SectionMeta: report.NotPresent("no btrfs filesystems mounted")}
	}

	var usages []report.BtrfsUsage
	var failures []string
	for _, m := range targets {
		cmd := fmt.Sprintf("btrfs filesystem usage -b %q 2>/dev/null", m.Mountpoint)
		out, err := runTimeout(ctx, runner, opts.CommandTimeout, cmd)
		if err != nil {
			failures = append(failures, m.Mountpoint)
			continue
		}
		usage, ok := ParseBtrfsUsage(string(out))
		if !ok {
			failures = append(failures, m.Mountpoint)
			continue
		}
		usage.Mountpoint = m.Mountpoint
		usages = append(usages, usage)
	}

	section := report.BtrfsSection{SectionMeta: report.OK(), Filesystems: usages}
	switch {
	case len(usages) == 0:
		section.SectionMeta = report.Unavailable("btrfs usage failed for " + strings.Join(failures, ", "))
	case len(failures) > 0:
		section.SectionMeta = report.Degraded("btrfs usage failed for " + strings.Join(failures, ", "))
	}
	return section
}

// ParseBtrfsUsage parses `btrfs filesystem usage -b` overall lines.
// Exported for testing.
func ParseBtrfsUsage(output string) (report.BtrfsUsage, bool) {
	var usage report.BtrfsUsage
	var found bool
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Device size:"):
			usage.DeviceSizeBytes = trailingUint(trimmed)
			found = true
		case strings.HasPrefix(trimmed, "Used:"):
			// the first "Used:" is the overall line; allocation
			// breakdown lines repeat it further down
			if usage.UsedBytes == 0 {
				usage.UsedBytes = trailingUint(trimmed)
			}
		case strings.HasPrefix(trimmed, "Free (estimated):"):
			fields := strings.Fields(trimmed)
			if len(fields) >= 3 {
				if v, err := strconv.ParseUint(fields[2], 10, 64); err == nil {
					usage.FreeEstimatedBytes = v
				}
			}
		}
	}
	return usage, found
}

func trailingUint(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	v, _ := strconv.ParseUint(fields[len(fields)-1], 10, 64)
	return v
}
