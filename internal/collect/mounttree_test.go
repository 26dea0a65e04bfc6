package collect

import "testing"

func TestParseFindmnt(t *testing.T) {
	edges := ParseFindmnt(loadTestData(t, "findmnt.txt"))

	if len(edges) != 7 {
		t.Fatalf("expected 7 edges, got %d", len(edges))
	}
	if edges[0].Mountpoint != "/" || edges[0].Source != "/dev/mapper/vg0-root" || edges[0].FSType != "ext4" {
		t.Errorf("unexpected root edge: %+v", edges[0])
	}

	// escaped space in mountpoint
	var found bool
	for _, e := range edges {
		if e.Mountpoint == "/srv/media library" {
			found = true
			if e.Source != "/dev/sdb1" {
				t.Errorf("unexpected source for escaped mountpoint: %s", e.Source)
			}
		}
	}
	if !found {
		t.Error("expected \\x20 escape decoded to a space")
	}
}

func TestResolveDisk(t *testing.T) {
	nodes := ParseLsblkPairs(loadTestData(t, "lsblk-pairs.txt"))

	// dm volume resolves through raid and partition layers to the disk
	if disk := ResolveDisk("/dev/mapper/vg0-root", nodes); disk != "/dev/nvme0n1" {
		t.Errorf("expected /dev/nvme0n1, got %q", disk)
	}
	if disk := ResolveDisk("/dev/sda1", nodes); disk != "/dev/sda" {
		t.Errorf("expected /dev/sda, got %q", disk)
	}
	if disk := ResolveDisk("/dev/sdb", nodes); disk != "/dev/sdb" {
		t.Errorf("expected a disk to resolve to itself, got %q", disk)
	}
	// network sources are not block devices
	if disk := ResolveDisk("server:/export/backup", nodes); disk != "" {
		t.Errorf("expected empty disk for nfs source, got %q", disk)
	}
	if disk := ResolveDisk("/dev/unknown", nodes); disk != "" {
		t.Errorf("expected empty disk for unknown device, got %q", disk)
	}
}
