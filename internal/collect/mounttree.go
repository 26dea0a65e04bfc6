package collect

import (
	"context"
	"sort"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const (
	findmntCommand    = "findmnt -rn -o TARGET,SOURCE,FSTYPE 2>/dev/null"
	lsblkPairsCommand = "lsblk -rno NAME,PKNAME,TYPE 2>/dev/null"
)

// CollectMountTree relates each analyzed mountpoint to its backing
// device and, walking parent links through LVM/RAID layers, the
// top-level disk beneath it.
func CollectMountTree(ctx context.Context, runner CommandRunner, mounts []Mount, opts Options) report.MountTreeSection {
	out, err := runTimeout(ctx, runner, opts.CommandTimeout, findmntCommand)
	if err != nil {
		return report.MountTreeSection{SectionMeta: report.Unavailable("findmnt: " + err.Error())}
	}
	edges := ParseFindmnt(string(out))

	var chain map[string]lsblkNode
	if pairs, err := runTimeout(ctx, runner, opts.CommandTimeout, lsblkPairsCommand); err == nil {
		chain = ParseLsblkPairs(string(pairs))
	}

	wanted := make(map[string]bool, len(mounts))
	for _, m := range mounts {
		wanted[m.Mountpoint] = true
	}

	var result []report.MountEdge
	for _, e := range edges {
		if !wanted[e.Mountpoint] {
			continue
		}
		e.Disk = ResolveDisk(e.Source, chain)
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Mountpoint < result[j].Mountpoint })

	return report.MountTreeSection{SectionMeta: report.OK(), Edges: result}
}

// ParseFindmnt parses `findmnt -rn -o TARGET,SOURCE,FSTYPE` raw lines.
// Exported for testing.
func ParseFindmnt(output string) []report.MountEdge {
	var edges []report.MountEdge
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		edges = append(edges, report.MountEdge{
			Mountpoint: unescapeFindmnt(fields[0]),
			Source:     fields[1],
			FSType:     fields[2],
		})
	}
	return edges
}

// unescapeFindmnt decodes the \xNN escapes findmnt raw mode emits for
// spaces in mountpoints. Only \x20 occurs in practice.
func unescapeFindmnt(s string) string {
	return strings.ReplaceAll(s, `\x20`, " ")
}

type lsblkNode struct {
	Parent string
	Type   string
}

// ParseLsblkPairs parses `lsblk -rno NAME,PKNAME,TYPE` into a child →
// parent map keyed by kernel name. Exported for testing.
func ParseLsblkPairs(output string) map[string]lsblkNode {
	nodes := make(map[string]lsblkNode)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		switch len(fields) {
		case 2:
			// no parent (top-level device)
			nodes[fields[0]] = lsblkNode{Type: fields[1]}
		case 3:
			nodes[fields[0]] = lsblkNode{Parent: fields[1], Type: fields[2]}
		}
	}
	return nodes
}

// ResolveDisk walks parent links from a mount source (partition, md
// array, or device-mapper volume) up to the top-level disk. Returns ""
// when the source is not a block device or the chain does not resolve.
func ResolveDisk(source string, nodes map[string]lsblkNode) string {
	if nodes == nil || !strings.HasPrefix(source, "/dev/") {
		return ""
	}
	name := strings.TrimPrefix(source, "/dev/")
	name = strings.TrimPrefix(name, "mapper/")

	// Bounded walk; lsblk trees are shallow but guard against cycles.
	for i := 0; i < 12; i++ {
		node, ok := nodes[name]
		if !ok {
			return ""
		}
		if node.Type == "disk" {
			return "/dev/" + name
		}
		if node.Parent == "" {
			return ""
		}
		name = node.Parent
	}
	return ""
}
