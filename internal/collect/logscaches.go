package collect

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const (
	journalCommand = "journalctl --disk-usage 2>/dev/null"
	cacheDuCommand = "du -sB1 /var/log /var/cache /var/tmp 2>/dev/null"
	snapDuCommand  = "du -sB1 /var/lib/snapd/snaps 2>/dev/null"
	snapListCmd    = "snap list 2>/dev/null"
)

// CollectLogsCaches measures journald usage, the well-known log/cache
// directories, and snap package storage. Every sub-probe is optional;
// the section is unavailable only when none of them produce data.
func CollectLogsCaches(ctx context.Context, runner CommandRunner, opts Options) report.LogCacheSection {
	section := report.LogCacheSection{}
	var any bool

	if out, err := runTimeout(ctx, runner, opts.CommandTimeout, journalCommand); err == nil {
		if size, ok := ParseJournalDiskUsage(string(out)); ok {
			section.JournalBytes = size
			any = true
		}
	}

	if out, err := runTimeout(ctx, runner, opts.DirScanTimeout, cacheDuCommand); err == nil {
		for _, e := range ParseDuOutput(string(out), "") {
			section.Paths = append(section.Paths, report.PathUsage{Path: e.Path, SizeBytes: e.SizeBytes})
			any = true
		}
		sort.Slice(section.Paths, func(i, j int) bool {
			return section.Paths[i].SizeBytes > section.Paths[j].SizeBytes
		})
	}

	if out, err := runTimeout(ctx, runner, opts.CommandTimeout, snapListCmd); err == nil {
		if n := countSnapPackages(string(out)); n > 0 {
			section.SnapCount = n
			any = true
			if du, err := runTimeout(ctx, runner, opts.DirScanTimeout, snapDuCommand); err == nil {
				if entries := ParseDuOutput(string(du), ""); len(entries) > 0 {
					section.SnapBytes = entries[0].SizeBytes
				}
			}
		}
	}

	if !any {
		section.SectionMeta = report.Unavailable("journalctl, du, and snap all unavailable")
		return section
	}
	section.SectionMeta = report.OK()
	return section
}

// ParseJournalDiskUsage extracts the size token from the journalctl
// summary line ("Archived and active journals take up 3.8G in the file
// system."). Exported for testing.
func ParseJournalDiskUsage(output string) (uint64, bool) {
	fields := strings.Fields(output)
	for i, f := range fields {
		if f != "up" || i+1 >= len(fields) {
			continue
		}
		if size, ok := ParseHumanSize(fields[i+1]); ok {
			return size, true
		}
	}
	return 0, false
}

// ParseHumanSize converts journalctl-style sizes ("3.8G", "56.0M",
// "512B") to bytes. Exported for testing.
func ParseHumanSize(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	mult := uint64(1)
	switch s[len(s)-1] {
	case 'K':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'M':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'G':
		mult = 1 << 30
		s = s[:len(s)-1]
	case 'T':
		mult = 1 << 40
		s = s[:len(s)-1]
	case 'B':
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return uint64(v*float64(mult) + 0.5), true
}

func countSnapPackages(output string) int {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	count := 0
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header
		}
		count++
	}
	return count
}
