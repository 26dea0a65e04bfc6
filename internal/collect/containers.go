package collect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// container runtimes probed in preference order.
var containerRuntimes = []string{"docker", "podman"}

const (
	containerDfFormat = "{{.Type}}\t{{.TotalCount}}\t{{.Active}}\t{{.Size}}\t{{.Reclaimable}}"
	containerPsFormat = "{{.ID}}\t{{.Names}}\t{{.Image}}\t{{.Status}}"
)

// CollectContainers inspects the first available container runtime for
// disk usage. Hosts without docker or podman report not_present.
func CollectContainers(ctx context.Context, runner CommandRunner, opts Options) report.ContainerSection {
	section := report.ContainerSection{}

	runtime := ""
	for _, rt := range containerRuntimes {
		probe := fmt.Sprintf("command -v %s >/dev/null 2>&1 && %s version --format '{{.Client.Version}}' 2>/dev/null", rt, rt)
		out, err := runTimeout(ctx, runner, opts.CommandTimeout, probe)
		if err != nil || strings.TrimSpace(string(out)) == "" {
			continue
		}
		runtime = rt
		section.Runtime = rt
		section.Version = strings.TrimSpace(string(out))
		break
	}
	if runtime == "" {
		section.SectionMeta = report.NotPresent("no container runtime found")
		return section
	}

	dfCmd := fmt.Sprintf("%s system df --format '%s' 2>/dev/null", runtime, containerDfFormat)
	out, err := runTimeout(ctx, runner, opts.CommandTimeout, dfCmd)
	if err != nil {
		section.SectionMeta = report.Unavailable(fmt.Sprintf("%s system df failed: %v", runtime, err))
		return section
	}
	section.Usage = ParseContainerDf(string(out))

	psCmd := fmt.Sprintf("%s ps --format '%s' 2>/dev/null", runtime, containerPsFormat)
	if psOut, err := runTimeout(ctx, runner, opts.CommandTimeout, psCmd); err == nil {
		section.Containers = ParseContainerPs(string(psOut))
	}

	section.SectionMeta = report.OK()
	return section
}

// ParseContainerDf parses tab-separated `system df` output produced with
// containerDfFormat. Exported for testing.
func ParseContainerDf(output string) []report.ContainerUsageRow {
	var rows []report.ContainerUsageRow
	for _, line := range strings.Split(output, "\n") {
		parts := strings.Split(strings.TrimSpace(line), "\t")
		if len(parts) != 5 || parts[0] == "" {
			continue
		}
		row := report.ContainerUsageRow{
			Kind:        parts[0],
			Reclaimable: strings.TrimSpace(parts[4]),
		}
		row.Count, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
		row.Active, _ = strconv.Atoi(strings.TrimSpace(parts[2]))
		row.SizeBytes, _ = ParseDockerSize(strings.TrimSpace(parts[3]))
		rows = append(rows, row)
	}
	return rows
}

// ParseContainerPs parses tab-separated `ps` output produced with
// containerPsFormat. Exported for testing.
func ParseContainerPs(output string) []report.ContainerItem {
	var items []report.ContainerItem
	for _, line := range strings.Split(output, "\n") {
		parts := strings.Split(strings.TrimSpace(line), "\t")
		if len(parts) != 4 || parts[0] == "" {
			continue
		}
		items = append(items, report.ContainerItem{
			ID:    parts[0],
			Name:  parts[1],
			Image: parts[2],
			State: parts[3],
		})
	}
	return items
}

// ParseDockerSize converts docker's decimal size strings ("1.5GB",
// "200MB", "0B") to bytes. Exported for testing.
func ParseDockerSize(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || v < 0 {
		return 0, false
	}
	mult := float64(1)
	switch strings.ToUpper(strings.TrimSpace(s[i:])) {
	case "B", "":
	case "KB":
		mult = 1e3
	case "MB":
		mult = 1e6
	case "GB":
		mult = 1e9
	case "TB":
		mult = 1e12
	default:
		return 0, false
	}
	return uint64(v*mult + 0.5), true
}
