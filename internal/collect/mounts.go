package collect

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// Mount is one entry of the live mount table. The deduplicated,
// order-stable mount sequence seeds every downstream collector.
type Mount struct {
	Mountpoint string
	Device     string
	FSType     string
}

// pseudoFSTypes are non-persistent filesystem types excluded from
// capacity accounting unless pseudo inclusion is requested.
var pseudoFSTypes = map[string]bool{
	"tmpfs":      true,
	"devtmpfs":   true,
	"proc":       true,
	"sysfs":      true,
	"devpts":     true,
	"securityfs": true,
	"cgroup":     true,
	"cgroup2":    true,
	"pstore":     true,
	"bpf":        true,
	"tracefs":    true,
	"debugfs":    true,
	"hugetlbfs":  true,
	"mqueue":     true,
	"configfs":   true,
	"fusectl":    true,
	"fuse.lxcfs": true,
	"autofs":     true,
	"ramfs":      true,
	"overlay":    true,
	"squashfs":   true,
}

// IsPseudoFS reports whether a filesystem type is virtual.
func IsPseudoFS(fstype string) bool {
	return pseudoFSTypes[fstype]
}

// EnumerateMounts resolves the mountpoints to analyze: either the
// explicit --only list, or the filtered live mount table. Output is
// deduplicated by mountpoint (first occurrence wins) and keeps the
// mount-table order, so repeated enumeration yields identical output.
func EnumerateMounts(opts Options) ([]Mount, error) {
	parts, err := disk.Partitions(true)
	if err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}

	byMountpoint := make(map[string]Mount, len(parts))
	var order []string
	for _, p := range parts {
		if _, ok := byMountpoint[p.Mountpoint]; ok {
			continue
		}
		byMountpoint[p.Mountpoint] = Mount{
			Mountpoint: p.Mountpoint,
			Device:     p.Device,
			FSType:     p.Fstype,
		}
		order = append(order, p.Mountpoint)
	}

	if len(opts.OnlyMounts) > 0 {
		return explicitMounts(opts.OnlyMounts, byMountpoint), nil
	}

	extra := make(map[string]bool, len(opts.ExtraExcludeFS))
	for _, fs := range opts.ExtraExcludeFS {
		extra[fs] = true
	}

	var mounts []Mount
	for _, mp := range order {
		m := byMountpoint[mp]
		if !opts.IncludePseudo && (IsPseudoFS(m.FSType) || extra[m.FSType]) {
			continue
		}
		mounts = append(mounts, m)
	}
	return mounts, nil
}

// explicitMounts maps a user-supplied mount list onto the live table,
// preserving the user's order. A requested path absent from the table
// is kept with only its mountpoint set so statfs can still be tried.
func explicitMounts(only []string, table map[string]Mount) []Mount {
	seen := make(map[string]bool, len(only))
	var mounts []Mount
	for _, raw := range only {
		mp := strings.TrimSpace(raw)
		if mp == "" || seen[mp] {
			continue
		}
		seen[mp] = true
		if m, ok := table[mp]; ok {
			mounts = append(mounts, m)
		} else {
			mounts = append(mounts, Mount{Mountpoint: mp})
		}
	}
	return mounts
}

// AllPartitions returns the raw mount table without the pseudo filter.
// Used by the sections that classify rather than measure (network
// mounts, tmpfs accounting).
func AllPartitions() ([]Mount, error) {
	parts, err := disk.Partitions(true)
	if err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}
	mounts := make([]Mount, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, Mount{Mountpoint: p.Mountpoint, Device: p.Device, FSType: p.Fstype})
	}
	return mounts, nil
}
