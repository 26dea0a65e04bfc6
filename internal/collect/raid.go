package collect

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const mdstatCommand = "cat /proc/mdstat 2>/dev/null"

// CollectRaid reports software RAID status from /proc/mdstat, enriched
// with `mdadm --detail` state strings when mdadm is installed. A host
// without md arrays is "not present", never an error.
func CollectRaid(ctx context.Context, runner CommandRunner, opts Options) report.RaidSection {
	out, err := runTimeout(ctx, runner, opts.CommandTimeout, mdstatCommand)
	if err != nil || len(strings.TrimSpace(string(out))) == 0 {
		return report.RaidSection{SectionMeta: report.NotPresent("no /proc/mdstat on this host")}
	}

	arrays := ParseMdstat(string(out))
	if len(arrays) == 0 {
		return report.RaidSection{SectionMeta: report.NotPresent("no md arrays found")}
	}

	for i := range arrays {
		cmd := fmt.Sprintf("mdadm --detail %s 2>/dev/null", arrays[i].Device)
		if detail, err := runTimeout(ctx, runner, opts.CommandTimeout, cmd); err == nil {
			if state := ParseMdadmState(string(detail)); state != "" {
				arrays[i].State = state
			}
		}
	}

	sort.Slice(arrays, func(i, j int) bool { return arrays[i].Device < arrays[j].Device })
	return report.RaidSection{SectionMeta: report.OK(), Arrays: arrays}
}

// ParseMdstat parses /proc/mdstat content into RaidArray records.
// Exported for testing.
//
// Typical layout:
//
//	md0 : active raid1 sdb1[1] sda1[0]
//	      1046528 blocks super 1.2 [2/2] [UU]
//	      [=>...................]  recovery =  5.3% (55296/1046528) ...
func ParseMdstat(output string) []report.RaidArray {
	var arrays []report.RaidArray
	var current *report.RaidArray

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)

		if len(fields) >= 4 && fields[1] == ":" && strings.HasPrefix(fields[0], "md") {
			if current != nil {
				arrays = append(arrays, *current)
			}
			current = &report.RaidArray{
				Device: "/dev/" + fields[0],
				State:  fields[2],
			}
			for _, f := range fields[3:] {
				if strings.HasPrefix(f, "raid") || f == "linear" || f == "multipath" {
					current.Level = f
					continue
				}
				// member entries look like "sda1[0]" or "sdb1[1](F)"
				if idx := strings.Index(f, "["); idx > 0 {
					current.Members = append(current.Members, f[:idx])
				}
			}
			continue
		}

		if current == nil {
			continue
		}

		// "[2/2] [UU]" — device counts and the up/down map
		if counts, up, ok := parseDeviceStatus(line); ok {
			current.TotalDevices = counts
			current.ActiveDevices = up
			current.Degraded = up < counts
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "recovery") || strings.Contains(lower, "resync") {
			current.Recovering = true
			current.RebuildPercent = parseRebuildPercent(line)
		}
	}
	if current != nil {
		arrays = append(arrays, *current)
	}
	return arrays
}

// parseDeviceStatus extracts total and active device counts from a
// "[n/m] [UU_]" blocks line.
func parseDeviceStatus(line string) (total, active int, ok bool) {
	for _, f := range strings.Fields(line) {
		if !strings.HasPrefix(f, "[") || !strings.HasSuffix(f, "]") || !strings.Contains(f, "/") {
			continue
		}
		inner := strings.Trim(f, "[]")
		parts := strings.SplitN(inner, "/", 2)
		if len(parts) != 2 {
			continue
		}
		t, err1 := strconv.Atoi(parts[0])
		a, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		return t, a, true
	}
	return 0, 0, false
}

func parseRebuildPercent(line string) float64 {
	for _, f := range strings.Fields(line) {
		if strings.HasSuffix(f, "%") {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64); err == nil {
				return v
			}
		}
	}
	return 0
}

// ParseMdadmState extracts the "State :" line from `mdadm --detail`
// output. Exported for testing.
func ParseMdadmState(output string) string {
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "State :") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "State :"))
		}
	}
	return ""
}
