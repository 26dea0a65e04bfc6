package collect

import (
	"context"
	"testing"
)

func TestParseFstab(t *testing.T) {
	entries := ParseFstab(loadTestData(t, "fstab.txt"))

	if len(entries) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(entries))
	}

	root := entries[0]
	if root.Device != "/dev/mapper/vg0-root" || root.Mountpoint != "/" || root.FSType != "ext4" {
		t.Errorf("unexpected root entry: %+v", root)
	}
	if root.Dump != 0 || root.Pass != 1 {
		t.Errorf("unexpected dump/pass: %+v", root)
	}

	// \040 octal escape decodes to a space
	media := entries[3]
	if media.Mountpoint != "/srv/media library" {
		t.Errorf("expected escaped mountpoint decoded, got %q", media.Mountpoint)
	}

	nfs := entries[4]
	if nfs.Device != "server:/export/backup" || nfs.FSType != "nfs4" {
		t.Errorf("unexpected nfs entry: %+v", nfs)
	}
}

func TestCollectFstab_MountedCrossCheck(t *testing.T) {
	runner := fakeRunner{outputs: map[string]string{"/etc/fstab": loadTestData(t, "fstab.txt")}}
	mounted := []Mount{
		{Mountpoint: "/"},
		{Mountpoint: "/boot"},
		{Mountpoint: "/home"},
		{Mountpoint: "/tmp"},
	}

	section := CollectFstab(context.Background(), runner, testOptions(), mounted)

	byMount := make(map[string]bool)
	for _, e := range section.Entries {
		byMount[e.Mountpoint] = e.Mounted
	}
	if !byMount["/"] || !byMount["/home"] {
		t.Error("expected live mounts to be marked mounted")
	}
	if byMount["/mnt/backup"] {
		t.Error("expected unmounted nfs entry to be marked not mounted")
	}
	if byMount["/srv/media library"] {
		t.Error("expected unmounted media entry to be marked not mounted")
	}
	// swap entries never appear in the mount table
	if !byMount["none"] {
		t.Error("expected swap entry to be treated as active")
	}
}
