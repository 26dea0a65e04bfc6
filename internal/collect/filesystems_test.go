package collect

import (
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
)

func TestFilesystemRecord(t *testing.T) {
	m := Mount{Mountpoint: "/", Device: "/dev/sda2", FSType: "ext4"}
	usage := &disk.UsageStat{
		Total:       100000000,
		Used:        95000000,
		Free:        5000000,
		InodesTotal: 6553600,
		InodesUsed:  655360,
	}

	rec := filesystemRecord(m, usage)

	if rec.Mountpoint != "/" || rec.Device != "/dev/sda2" || rec.FSType != "ext4" {
		t.Errorf("identity fields not carried: %+v", rec)
	}
	if rec.UsePercent != 95 {
		t.Errorf("expected floored 95%%, got %d", rec.UsePercent)
	}
	if rec.InodeUsePercent == nil || *rec.InodeUsePercent != 10 {
		t.Errorf("expected 10%% inodes, got %v", rec.InodeUsePercent)
	}
}

func TestFilesystemRecord_FloorsPercent(t *testing.T) {
	usage := &disk.UsageStat{Total: 3, Used: 2, Free: 1}
	rec := filesystemRecord(Mount{Mountpoint: "/x"}, usage)
	if rec.UsePercent != 66 {
		t.Errorf("expected floored 66%%, got %d", rec.UsePercent)
	}
}

func TestFilesystemRecord_NoInodes(t *testing.T) {
	usage := &disk.UsageStat{Total: 100, Used: 50, Free: 50}
	rec := filesystemRecord(Mount{Mountpoint: "/x"}, usage)
	if rec.InodeUsePercent != nil {
		t.Errorf("expected no inode percentage when the fs reports none, got %d", *rec.InodeUsePercent)
	}
}
