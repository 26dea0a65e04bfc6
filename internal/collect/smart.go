package collect

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// ataAttributes maps the SMART attribute names we surface to setters on
// the record. The raw value is the last whitespace field of the row.
var ataAttributes = map[string]func(*report.SmartRecord, int64){
	"Reallocated_Sector_Ct":  func(r *report.SmartRecord, v int64) { r.ReallocatedSectors = &v },
	"Current_Pending_Sector": func(r *report.SmartRecord, v int64) { r.PendingSectors = &v },
	"UDMA_CRC_Error_Count":   func(r *report.SmartRecord, v int64) { r.CRCErrors = &v },
	"Power_On_Hours":         func(r *report.SmartRecord, v int64) { r.PowerOnHours = &v },
	"Temperature_Celsius": func(r *report.SmartRecord, v int64) {
		t := int(v)
		r.TemperatureC = &t
	},
}

// CollectSmart queries smartctl for every physical disk. Requires root;
// callers gate on that before invoking.
func CollectSmart(ctx context.Context, runner CommandRunner, opts Options, disks []report.BlockDevice) report.SmartSection {
	section := report.SmartSection{}

	if _, err := runTimeout(ctx, runner, opts.CommandTimeout, "command -v smartctl"); err != nil {
		section.SectionMeta = report.Unavailable("smartctl not installed")
		return section
	}
	if len(disks) == 0 {
		section.SectionMeta = report.NotPresent("no physical disks found")
		return section
	}

	failures := 0
	for _, d := range disks {
		cmd := fmt.Sprintf("smartctl -a %q 2>/dev/null", d.Path)
		// smartctl exits nonzero for failing disks while still printing a
		// full report, so only an empty response counts as a failure.
		out, err := runTimeout(ctx, runner, opts.CommandTimeout, cmd)
		if len(strings.TrimSpace(string(out))) == 0 {
			if err != nil {
				failures++
			}
			continue
		}
		rec := ParseSmartctl(d.Path, string(out))
		section.Disks = append(section.Disks, rec)
	}
	sort.Slice(section.Disks, func(i, j int) bool { return section.Disks[i].Device < section.Disks[j].Device })

	switch {
	case failures == len(disks):
		section.SectionMeta = report.Unavailable("smartctl produced no output for any disk")
	case failures > 0:
		section.SectionMeta = report.Degraded(fmt.Sprintf("smartctl failed for %d of %d disks", failures, len(disks)))
	default:
		section.SectionMeta = report.OK()
	}
	return section
}

// ParseSmartctl parses `smartctl -a` output for one device, handling
// both the ATA attribute table and the NVMe health log. Exported for
// testing.
func ParseSmartctl(device, output string) report.SmartRecord {
	rec := report.SmartRecord{Device: device, Kind: "ata"}
	if strings.Contains(output, "NVMe Version") || strings.Contains(output, "SMART/Health Information (NVMe") {
		rec.Kind = "nvme"
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Device Model:"), strings.HasPrefix(line, "Model Number:"):
			rec.Model = strings.TrimSpace(line[strings.Index(line, ":")+1:])
		case strings.HasPrefix(line, "SMART overall-health self-assessment test result:"):
			rec.HealthStatus = strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
			rec.Healthy = rec.HealthStatus == "PASSED" || rec.HealthStatus == "OK"
		}

		if rec.Kind == "nvme" {
			parseNvmeHealthLine(&rec, line)
		} else {
			parseAtaAttributeLine(&rec, line)
		}
	}
	return rec
}

// parseAtaAttributeLine handles rows of the ATA attribute table:
//
//	ID# ATTRIBUTE_NAME FLAG VALUE WORST THRESH TYPE UPDATED WHEN_FAILED RAW_VALUE
func parseAtaAttributeLine(rec *report.SmartRecord, line string) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return
	}
	set, ok := ataAttributes[fields[1]]
	if !ok {
		return
	}
	// Raw values can carry vendor suffixes ("33 (Min/Max 20/45)",
	// "12345h+32m"); take the leading integer.
	raw := fields[9]
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return
	}
	v, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return
	}
	set(rec, v)
}

func parseNvmeHealthLine(rec *report.SmartRecord, line string) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(name) {
	case "Percentage Used":
		if v, err := strconv.Atoi(strings.TrimSuffix(value, "%")); err == nil {
			rec.PercentUsed = &v
		}
	case "Temperature":
		fields := strings.Fields(value)
		if len(fields) > 0 {
			if v, err := strconv.Atoi(fields[0]); err == nil {
				rec.TemperatureC = &v
			}
		}
	case "Power On Hours":
		if v, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64); err == nil {
			rec.PowerOnHours = &v
		}
	}
}
