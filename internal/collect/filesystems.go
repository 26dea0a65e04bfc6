package collect

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// CollectFilesystems produces one FilesystemRecord per enumerated
// mountpoint via statfs. Mounts that refuse statfs (stale NFS handles,
// permission) are logged and skipped; the section only degrades when
// nothing at all could be measured.
func CollectFilesystems(mounts []Mount) report.FilesystemSection {
	log := slog.Default().With("component", "filesystems")

	var records []report.FilesystemRecord
	var failed int
	for _, m := range mounts {
		usage, err := disk.Usage(m.Mountpoint)
		if err != nil {
			log.Debug("statfs failed", "mountpoint", m.Mountpoint, "error", err)
			failed++
			continue
		}
		records = append(records, filesystemRecord(m, usage))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Mountpoint < records[j].Mountpoint
	})

	section := report.FilesystemSection{SectionMeta: report.OK(), Filesystems: records}
	if len(records) == 0 && failed > 0 {
		section.SectionMeta = report.Unavailable(fmt.Sprintf("statfs failed for all %d mounts", failed))
	} else if failed > 0 {
		section.SectionMeta = report.Degraded(fmt.Sprintf("%d mounts could not be measured", failed))
	}
	return section
}

func filesystemRecord(m Mount, usage *disk.UsageStat) report.FilesystemRecord {
	rec := report.FilesystemRecord{
		Mountpoint: m.Mountpoint,
		Device:     m.Device,
		FSType:     m.FSType,
		TotalBytes: usage.Total,
		UsedBytes:  usage.Used,
		AvailBytes: usage.Free,
	}
	if rec.FSType == "" {
		rec.FSType = usage.Fstype
	}
	if usage.Total > 0 {
		rec.UsePercent = int(usage.Used * 100 / usage.Total)
	}
	if usage.InodesTotal > 0 {
		pct := int(usage.InodesUsed * 100 / usage.InodesTotal)
		rec.InodeUsePercent = &pct
	}
	return rec
}
