package collect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const fstabCommand = "cat /etc/fstab 2>/dev/null"

// CollectFstab parses /etc/fstab and marks each entry mounted or not
// against the live mount table, exposing configured-but-missing mounts.
func CollectFstab(ctx context.Context, runner CommandRunner, opts Options, mounted []Mount) report.FstabSection {
	section := report.FstabSection{}

	out, err := runTimeout(ctx, runner, opts.CommandTimeout, fstabCommand)
	if err != nil {
		section.SectionMeta = report.Unavailable(fmt.Sprintf("reading /etc/fstab: %v", err))
		return section
	}

	byMountpoint := make(map[string]bool, len(mounted))
	for _, m := range mounted {
		byMountpoint[m.Mountpoint] = true
	}

	section.Entries = ParseFstab(string(out))
	for i := range section.Entries {
		e := &section.Entries[i]
		switch e.Mountpoint {
		case "none", "swap":
			// swap areas never appear in the mount table
			e.Mounted = e.FSType == "swap"
		default:
			e.Mounted = byMountpoint[e.Mountpoint]
		}
	}
	section.SectionMeta = report.OK()
	return section
}

// ParseFstab parses fstab lines, skipping comments and blanks. Exported
// for testing.
func ParseFstab(output string) []report.FstabEntry {
	var entries []report.FstabEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		entry := report.FstabEntry{
			Device:     unescapeFstab(fields[0]),
			Mountpoint: unescapeFstab(fields[1]),
			FSType:     fields[2],
			Options:    fields[3],
		}
		if len(fields) > 4 {
			entry.Dump, _ = strconv.Atoi(fields[4])
		}
		if len(fields) > 5 {
			entry.Pass, _ = strconv.Atoi(fields[5])
		}
		entries = append(entries, entry)
	}
	return entries
}

// unescapeFstab decodes the octal escapes fstab uses for whitespace in
// paths (\040 for space).
func unescapeFstab(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
