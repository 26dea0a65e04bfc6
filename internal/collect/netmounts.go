package collect

import (
	"sort"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

var networkFSTypes = map[string]bool{
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smbfs":      true,
	"smb3":       true,
	"ceph":       true,
	"glusterfs":  true,
	"fuse.sshfs": true,
	"sshfs":      true,
	"9p":         true,
	"afs":        true,
}

// IsNetworkMount reports whether a mount is backed by a remote source,
// by filesystem type or by a host:/path or //server/share source.
func IsNetworkMount(m Mount) bool {
	if networkFSTypes[m.FSType] {
		return true
	}
	if strings.HasPrefix(m.Device, "//") {
		return true
	}
	// "nas:/vol/share" style sources, but not plain device paths
	if !strings.HasPrefix(m.Device, "/") && strings.Contains(m.Device, ":") {
		return true
	}
	return false
}

// CollectNetworkMounts lists remote filesystem mounts from the full
// mount table. No remote mounts is a normal "not present" state.
func CollectNetworkMounts(all []Mount) report.NetworkMountSection {
	var mounts []report.NetworkMount
	for _, m := range all {
		if !IsNetworkMount(m) {
			continue
		}
		mounts = append(mounts, report.NetworkMount{
			Mountpoint: m.Mountpoint,
			Source:     m.Device,
			FSType:     m.FSType,
		})
	}
	if len(mounts) == 0 {
		return report.NetworkMountSection{SectionMeta: report.NotPresent("no network mounts")}
	}
	sort.Slice(mounts, func(i, j int) bool { return mounts[i].Mountpoint < mounts[j].Mountpoint })
	return report.NetworkMountSection{SectionMeta: report.OK(), Mounts: mounts}
}
