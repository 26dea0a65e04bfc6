package collect

import (
	"context"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const (
	pvsCommand = "pvs --noheadings --separator '|' --units b --nosuffix -o pv_name,vg_name,pv_size,pv_free 2>/dev/null"
	vgsCommand = "vgs --noheadings --separator '|' --units b --nosuffix -o vg_name,pv_count,lv_count,vg_size,vg_free 2>/dev/null"
	lvsCommand = "lvs --noheadings --separator '|' --units b --nosuffix -o lv_name,vg_name,lv_attr,lv_size 2>/dev/null"
)

// CollectLvm surveys LVM physical volumes, volume groups, and logical
// volumes. A host with the tools but no volume groups is "not present".
func CollectLvm(ctx context.Context, runner CommandRunner, opts Options) report.LvmSection {
	pvOut, err := runTimeout(ctx, runner, opts.CommandTimeout, pvsCommand)
	if err != nil {
		return report.LvmSection{SectionMeta: report.Unavailable("pvs: " + err.Error())}
	}

	section := report.LvmSection{PVs: ParsePvs(string(pvOut))}

	if out, err := runTimeout(ctx, runner, opts.CommandTimeout, vgsCommand); err == nil {
		section.VGs = ParseVgs(string(out))
	}
	if out, err := runTimeout(ctx, runner, opts.CommandTimeout, lvsCommand); err == nil {
		section.LVs = ParseLvs(string(out))
	}

	if len(section.PVs) == 0 && len(section.VGs) == 0 && len(section.LVs) == 0 {
		section.SectionMeta = report.NotPresent("no physical volumes found")
		return section
	}
	section.SectionMeta = report.OK()
	return section
}

// splitLvmLine splits one pipe-separated report line, trimming the
// leading indent the lvm tools emit.
func splitLvmLine(line string, want int) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	fields := strings.Split(line, "|")
	if len(fields) != want {
		return nil, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, true
}

// ParsePvs parses `pvs --noheadings` pipe-separated output.
// Exported for testing.
func ParsePvs(output string) []report.LvmPV {
	var pvs []report.LvmPV
	for _, line := range strings.Split(output, "\n") {
		fields, ok := splitLvmLine(line, 4)
		if !ok {
			continue
		}
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			continue
		}
		free, _ := strconv.ParseUint(fields[3], 10, 64)
		pvs = append(pvs, report.LvmPV{
			Name:      fields[0],
			VG:        fields[1],
			SizeBytes: size,
			FreeBytes: free,
		})
	}
	return pvs
}

// ParseVgs parses `vgs --noheadings` pipe-separated output.
// Exported for testing.
func ParseVgs(output string) []report.LvmVG {
	var vgs []report.LvmVG
	for _, line := range strings.Split(output, "\n") {
		fields, ok := splitLvmLine(line, 5)
		if !ok {
			continue
		}
		size, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			continue
		}
		pvCount, _ := strconv.Atoi(fields[1])
		lvCount, _ := strconv.Atoi(fields[2])
		free, _ := strconv.ParseUint(fields[4], 10, 64)
		vgs = append(vgs, report.LvmVG{
			Name:      fields[0],
			PVCount:   pvCount,
			LVCount:   lvCount,
			SizeBytes: size,
			FreeBytes: free,
		})
	}
	return vgs
}

// ParseLvs parses `lvs --noheadings` pipe-separated output.
// Exported for testing.
func ParseLvs(output string) []report.LvmLV {
	var lvs []report.LvmLV
	for _, line := range strings.Split(output, "\n") {
		fields, ok := splitLvmLine(line, 4)
		if !ok {
			continue
		}
		size, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			continue
		}
		lvs = append(lvs, report.LvmLV{
			Name:      fields[0],
			VG:        fields[1],
			Attr:      fields[2],
			SizeBytes: size,
		})
	}
	return lvs
}
