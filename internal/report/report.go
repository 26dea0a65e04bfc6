// Package report defines the data model for a storage diagnostic run:
// one typed record set per section, host-wide totals, and derived alerts.
package report

import "time"

// Status describes the outcome of collecting a single section.
type Status string

const (
	// StatusOK means the section was collected normally.
	StatusOK Status = "ok"
	// StatusUnavailable means the backing tool is absent, denied, or failed.
	StatusUnavailable Status = "unavailable"
	// StatusDegraded means partial results, typically after a scan timeout.
	StatusDegraded Status = "degraded"
	// StatusNotPresent means the subsystem genuinely does not exist on this
	// host (no RAID arrays, no volume groups). Distinct from a failure.
	StatusNotPresent Status = "not_present"
	// StatusSkipped means the section was disabled by a flag (e.g. --quick).
	StatusSkipped Status = "skipped"
)

// SectionMeta is embedded in every section record set.
type SectionMeta struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// OK returns a SectionMeta for a normally collected section.
func OK() SectionMeta { return SectionMeta{Status: StatusOK} }

// Unavailable marks a section whose tool is absent, denied, or broken.
func Unavailable(detail string) SectionMeta {
	return SectionMeta{Status: StatusUnavailable, Detail: detail}
}

// Degraded marks a section with partial results.
func Degraded(detail string) SectionMeta {
	return SectionMeta{Status: StatusDegraded, Detail: detail}
}

// NotPresent marks a subsystem that does not exist on this host.
func NotPresent(detail string) SectionMeta {
	return SectionMeta{Status: StatusNotPresent, Detail: detail}
}

// Skipped marks a section disabled by configuration.
func Skipped(detail string) SectionMeta {
	return SectionMeta{Status: StatusSkipped, Detail: detail}
}

// FilesystemRecord is one mounted filesystem that survived the pseudo-fs
// filter. Sizes are bytes; percentages are floored integers.
type FilesystemRecord struct {
	Mountpoint      string `json:"mountpoint"`
	Device          string `json:"device"`
	FSType          string `json:"fstype"`
	TotalBytes      uint64 `json:"total_bytes"`
	UsedBytes       uint64 `json:"used_bytes"`
	AvailBytes      uint64 `json:"available_bytes"`
	UsePercent      int    `json:"use_percent"`
	InodeUsePercent *int   `json:"inode_use_percent,omitempty"`
}

// FilesystemSection holds the filesystem summary.
type FilesystemSection struct {
	SectionMeta
	Filesystems []FilesystemRecord `json:"filesystems"`
}

// BlockDevice is one physical or logical disk (loop devices excluded).
type BlockDevice struct {
	Path       string `json:"path"`
	SizeBytes  uint64 `json:"size_bytes"`
	Model      string `json:"model,omitempty"`
	Serial     string `json:"serial,omitempty"`
	WWN        string `json:"wwn,omitempty"`
	Rotational bool   `json:"rotational"`
	DiskType   string `json:"disk_type"` // "HDD", "SSD", "NVMe"
	Transport  string `json:"transport,omitempty"`
	HCTL       string `json:"hctl,omitempty"` // SCSI controller address
}

// BlockDeviceSection holds the physical disk inventory.
type BlockDeviceSection struct {
	SectionMeta
	Devices []BlockDevice `json:"devices"`
}

// MountEdge relates a mountpoint to its backing device and, where the
// chain resolves (possibly through LVM/RAID layers), the top-level disk.
type MountEdge struct {
	Mountpoint string `json:"mountpoint"`
	Source     string `json:"source"`
	FSType     string `json:"fstype"`
	Disk       string `json:"disk,omitempty"`
}

// MountTreeSection holds the mount-to-device topology.
type MountTreeSection struct {
	SectionMeta
	Edges []MountEdge `json:"edges"`
}

// RaidArray describes one md array.
type RaidArray struct {
	Device         string   `json:"device"`
	Level          string   `json:"level"`
	State          string   `json:"state"`
	ActiveDevices  int      `json:"active_devices"`
	TotalDevices   int      `json:"total_devices"`
	Degraded       bool     `json:"degraded"`
	Recovering     bool     `json:"recovering"`
	RebuildPercent float64  `json:"rebuild_percent,omitempty"`
	Members        []string `json:"members,omitempty"`
}

// RaidSection holds software RAID status.
type RaidSection struct {
	SectionMeta
	Arrays []RaidArray `json:"arrays"`
}

// LvmPV is one LVM physical volume.
type LvmPV struct {
	Name      string `json:"name"`
	VG        string `json:"vg,omitempty"`
	SizeBytes uint64 `json:"size_bytes"`
	FreeBytes uint64 `json:"free_bytes"`
}

// LvmVG is one LVM volume group.
type LvmVG struct {
	Name      string `json:"name"`
	PVCount   int    `json:"pv_count"`
	LVCount   int    `json:"lv_count"`
	SizeBytes uint64 `json:"size_bytes"`
	FreeBytes uint64 `json:"free_bytes"`
}

// LvmLV is one LVM logical volume.
type LvmLV struct {
	Name      string `json:"name"`
	VG        string `json:"vg"`
	Attr      string `json:"attr,omitempty"`
	SizeBytes uint64 `json:"size_bytes"`
}

// LvmSection holds LVM topology.
type LvmSection struct {
	SectionMeta
	PVs []LvmPV `json:"pvs"`
	VGs []LvmVG `json:"vgs"`
	LVs []LvmLV `json:"lvs"`
}

// BtrfsUsage is space accounting for one mounted btrfs filesystem.
type BtrfsUsage struct {
	Mountpoint         string `json:"mountpoint"`
	DeviceSizeBytes    uint64 `json:"device_size_bytes"`
	UsedBytes          uint64 `json:"used_bytes"`
	FreeEstimatedBytes uint64 `json:"free_estimated_bytes"`
}

// BtrfsSection holds btrfs usage per mounted filesystem.
type BtrfsSection struct {
	SectionMeta
	Filesystems []BtrfsUsage `json:"filesystems"`
}

// NetworkMount is one NFS/CIFS/sshfs style remote mount.
type NetworkMount struct {
	Mountpoint string `json:"mountpoint"`
	Source     string `json:"source"`
	FSType     string `json:"fstype"`
}

// NetworkMountSection holds remote filesystem mounts.
type NetworkMountSection struct {
	SectionMeta
	Mounts []NetworkMount `json:"mounts"`
}

// DirEntry is one ranked directory from the large-directory scan.
type DirEntry struct {
	Path       string `json:"path"`
	SizeBytes  uint64 `json:"size_bytes"`
	Device     string `json:"device,omitempty"`
	FSType     string `json:"fstype,omitempty"`
	Mountpoint string `json:"mountpoint"`
}

// LargeDirSection holds top-N directories per mountpoint.
type LargeDirSection struct {
	SectionMeta
	Entries []DirEntry `json:"entries"`
}

// FileEntry is one ranked file from the large-file scan.
type FileEntry struct {
	Path       string `json:"path"`
	SizeBytes  uint64 `json:"size_bytes"`
	Device     string `json:"device,omitempty"`
	FSType     string `json:"fstype,omitempty"`
	Mountpoint string `json:"mountpoint"`
}

// LargeFileSection holds the merged global top-N large files.
type LargeFileSection struct {
	SectionMeta
	Entries []FileEntry `json:"entries"`
}

// PathUsage is disk usage for one well-known log or cache directory.
type PathUsage struct {
	Path      string `json:"path"`
	SizeBytes uint64 `json:"size_bytes"`
}

// LogCacheSection holds journal, log-directory, cache, and snap usage.
type LogCacheSection struct {
	SectionMeta
	JournalBytes uint64      `json:"journal_bytes"`
	Paths        []PathUsage `json:"paths"`
	SnapCount    int         `json:"snap_count,omitempty"`
	SnapBytes    uint64      `json:"snap_bytes,omitempty"`
}

// ContainerUsageRow is one row of docker/podman `system df`.
type ContainerUsageRow struct {
	Kind        string `json:"kind"` // Images, Containers, Local Volumes, Build Cache
	Count       int    `json:"count"`
	Active      int    `json:"active"`
	SizeBytes   uint64 `json:"size_bytes"`
	Reclaimable string `json:"reclaimable,omitempty"`
}

// ContainerItem is one running container.
type ContainerItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	State string `json:"state,omitempty"`
}

// ContainerSection holds container runtime storage accounting.
type ContainerSection struct {
	SectionMeta
	Runtime    string              `json:"runtime,omitempty"`
	Version    string              `json:"version,omitempty"`
	Usage      []ContainerUsageRow `json:"usage,omitempty"`
	Containers []ContainerItem     `json:"containers,omitempty"`
}

// DeletedFile is an unlinked file still held open by a process. Its
// space is not reclaimed until the process closes the descriptor.
type DeletedFile struct {
	Command   string `json:"command"`
	PID       int    `json:"pid"`
	User      string `json:"user"`
	SizeBytes uint64 `json:"size_bytes"`
	Path      string `json:"path"`
}

// DeletedFileSection holds deleted-but-open files.
type DeletedFileSection struct {
	SectionMeta
	Files []DeletedFile `json:"files"`
}

// SwapDevice is one active swap area.
type SwapDevice struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	SizeBytes uint64 `json:"size_bytes"`
	UsedBytes uint64 `json:"used_bytes"`
	Priority  int    `json:"priority"`
}

// SwapSection holds swap areas and tmpfs mounts.
type SwapSection struct {
	SectionMeta
	Devices    []SwapDevice       `json:"devices"`
	TotalBytes uint64             `json:"total_bytes"`
	UsedBytes  uint64             `json:"used_bytes"`
	Tmpfs      []FilesystemRecord `json:"tmpfs,omitempty"`
}

// SmartRecord holds parsed SMART health for one disk. ATA and NVMe
// devices expose different attribute vocabularies, so counter fields
// are pointers and absent where the device class does not report them.
type SmartRecord struct {
	Device             string `json:"device"`
	Model              string `json:"model,omitempty"`
	Kind               string `json:"kind"` // "ata" or "nvme"
	Healthy            bool   `json:"healthy"`
	HealthStatus       string `json:"health_status"`
	TemperatureC       *int   `json:"temperature_c,omitempty"`
	PowerOnHours       *int64 `json:"power_on_hours,omitempty"`
	ReallocatedSectors *int64 `json:"reallocated_sectors,omitempty"`
	PendingSectors     *int64 `json:"pending_sectors,omitempty"`
	CRCErrors          *int64 `json:"crc_errors,omitempty"`
	PercentUsed        *int   `json:"percent_used,omitempty"` // NVMe wear
}

// SmartSection holds SMART health per physical disk.
type SmartSection struct {
	SectionMeta
	Disks []SmartRecord `json:"disks"`
}

// FstabEntry is one /etc/fstab line cross-checked against the live
// mount table.
type FstabEntry struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	FSType     string `json:"fstype"`
	Options    string `json:"options"`
	Dump       int    `json:"dump"`
	Pass       int    `json:"pass"`
	Mounted    bool   `json:"mounted"`
}

// FstabSection holds configured mounts.
type FstabSection struct {
	SectionMeta
	Entries []FstabEntry `json:"entries"`
}

// Totals is host-wide capacity summed exactly once per backing device.
// UsePercent is nil when total capacity is zero.
type Totals struct {
	TotalBytes uint64 `json:"total_bytes"`
	UsedBytes  uint64 `json:"used_bytes"`
	AvailBytes uint64 `json:"available_bytes"`
	UsePercent *int   `json:"use_percent,omitempty"`
}

// Severity classifies an alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one threshold or state finding.
type Alert struct {
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

// AlertSummary distinguishes "evaluated, no issues" from "not computed".
type AlertSummary struct {
	Evaluated bool    `json:"evaluated"`
	Alerts    []Alert `json:"alerts"`
}

// NoIssues reports whether evaluation ran and found nothing.
func (s AlertSummary) NoIssues() bool {
	return s.Evaluated && len(s.Alerts) == 0
}

// Report is the root aggregate for one diagnostic run. Built once,
// serialized, discarded.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Hostname    string    `json:"hostname"`
	OS          string    `json:"os,omitempty"`
	Kernel      string    `json:"kernel,omitempty"`
	ToolVersion string    `json:"tool_version"`

	Filesystems   FilesystemSection   `json:"filesystems"`
	MountTree     MountTreeSection    `json:"mount_tree"`
	BlockDevices  BlockDeviceSection  `json:"block_devices"`
	Raid          RaidSection         `json:"raid"`
	Lvm           LvmSection          `json:"lvm"`
	Btrfs         BtrfsSection        `json:"btrfs"`
	NetworkMounts NetworkMountSection `json:"network_mounts"`
	LargeDirs     LargeDirSection     `json:"large_directories"`
	LargeFiles    LargeFileSection    `json:"large_files"`
	LogsCaches    LogCacheSection     `json:"logs_caches"`
	Containers    ContainerSection    `json:"containers"`
	DeletedFiles  DeletedFileSection  `json:"deleted_open_files"`
	Swap          SwapSection         `json:"swap"`
	Smart         SmartSection        `json:"smart"`
	Fstab         FstabSection        `json:"fstab"`

	Totals Totals       `json:"totals"`
	Alerts AlertSummary `json:"alerts"`
}
