package collect

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const lsofDeletedCommand = "lsof +L1 -nP 2>/dev/null"

// CollectDeletedFiles finds open-but-unlinked files, whose space is held
// until the owning process exits.
func CollectDeletedFiles(ctx context.Context, runner CommandRunner, opts Options) report.DeletedFileSection {
	section := report.DeletedFileSection{}

	out, err := runTimeout(ctx, runner, opts.CommandTimeout, lsofDeletedCommand)
	if err != nil && len(out) == 0 {
		section.SectionMeta = report.Unavailable(fmt.Sprintf("lsof unavailable: %v", err))
		return section
	}

	section.Files = ParseLsofDeleted(string(out))
	section.SectionMeta = report.OK()
	return section
}

// ParseLsofDeleted parses `lsof +L1` output, keeping only rows whose link
// count is zero. Exported for testing.
//
// Column layout: COMMAND PID USER FD TYPE DEVICE SIZE/OFF NLINK NODE NAME
func ParseLsofDeleted(output string) []report.DeletedFile {
	var files []report.DeletedFile
	seen := make(map[string]bool)
	for i, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if i == 0 || len(fields) < 10 {
			continue
		}
		nlink, err := strconv.Atoi(fields[7])
		if err != nil || nlink != 0 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		size, err := strconv.ParseUint(fields[6], 10, 64)
		if err != nil {
			continue
		}
		path := strings.Join(fields[9:], " ")
		path = strings.TrimSuffix(path, " (deleted)")

		// lsof repeats the same file once per open descriptor.
		key := fmt.Sprintf("%d:%s", pid, path)
		if seen[key] {
			continue
		}
		seen[key] = true

		files = append(files, report.DeletedFile{
			Command:   fields[0],
			PID:       pid,
			User:      fields[2],
			SizeBytes: size,
			Path:      path,
		})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].SizeBytes != files[j].SizeBytes {
			return files[i].SizeBytes > files[j].SizeBytes
		}
		return files[i].Path < files[j].Path
	})
	return files
}
