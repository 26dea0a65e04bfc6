package collect

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const swaponCommand = "swapon --bytes --noheadings --show=NAME,TYPE,SIZE,USED,PRIO 2>/dev/null"

// CollectSwap lists active swap areas plus tmpfs mounts, both of which
// consume memory rather than disk and are easy to misread in df output.
func CollectSwap(ctx context.Context, runner CommandRunner, opts Options) report.SwapSection {
	section := report.SwapSection{}

	out, err := runTimeout(ctx, runner, opts.CommandTimeout, swaponCommand)
	if err == nil {
		section.Devices = ParseSwapon(string(out))
	}
	for _, d := range section.Devices {
		section.TotalBytes += d.SizeBytes
		section.UsedBytes += d.UsedBytes
	}
	// swapon prints nothing when no swap is active; cross-check with the
	// kernel counters so a failed exec is still distinguishable.
	if len(section.Devices) == 0 {
		if sm, serr := mem.SwapMemory(); serr == nil {
			section.TotalBytes = sm.Total
			section.UsedBytes = sm.Used
		} else if err != nil {
			section.SectionMeta = report.Unavailable(fmt.Sprintf("swapon failed: %v", err))
			return section
		}
	}

	section.Tmpfs = collectTmpfs()
	section.SectionMeta = report.OK()
	return section
}

func collectTmpfs() []report.FilesystemRecord {
	all, err := AllPartitions()
	if err != nil {
		return nil
	}
	var records []report.FilesystemRecord
	seen := make(map[string]bool)
	for _, m := range all {
		if m.FSType != "tmpfs" || seen[m.Mountpoint] {
			continue
		}
		seen[m.Mountpoint] = true
		u, err := disk.Usage(m.Mountpoint)
		if err != nil {
			continue
		}
		records = append(records, filesystemRecord(m, u))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Mountpoint < records[j].Mountpoint })
	return records
}

// ParseSwapon parses `swapon --bytes --noheadings` rows. Exported for
// testing.
func ParseSwapon(output string) []report.SwapDevice {
	var devices []report.SwapDevice
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			continue
		}
		used, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			continue
		}
		prio, _ := strconv.Atoi(fields[4])
		devices = append(devices, report.SwapDevice{
			Name:      fields[0],
			Type:      fields[1],
			SizeBytes: size,
			UsedBytes: used,
			Priority:  prio,
		})
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })
	return devices
}
