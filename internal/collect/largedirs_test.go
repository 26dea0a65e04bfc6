package collect

import (
	"context"
	"strings"
	"testing"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

func TestParseDuOutput(t *testing.T) {
	entries := ParseDuOutput(loadTestData(t, "du.txt"), "/var")

	// the root summary line is dropped
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Path == "/var" {
			t.Error("root summary line must be excluded")
		}
		if e.Mountpoint != "/var" {
			t.Errorf("expected mountpoint /var, got %s", e.Mountpoint)
		}
	}
	if entries[0].Path != "/var/lib" || entries[0].SizeBytes != 53687091200 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestCollectLargeDirs_RanksAndTruncates(t *testing.T) {
	runner := fakeRunner{outputs: map[string]string{"du ": loadTestData(t, "du.txt")}}
	opts := testOptions()
	opts.TopN = 2

	mounts := []Mount{{Mountpoint: "/var", Device: "/dev/sda2", FSType: "ext4"}}
	section := CollectLargeDirs(context.Background(), runner, mounts, opts)

	if len(section.Entries) != 2 {
		t.Fatalf("expected top 2 entries, got %d", len(section.Entries))
	}
	if section.Entries[0].SizeBytes < section.Entries[1].SizeBytes {
		t.Error("entries must be ranked descending by size")
	}
	if section.Entries[0].Path != "/var/lib" {
		t.Errorf("expected /var/lib first, got %s", section.Entries[0].Path)
	}
	if section.Entries[0].FSType != "ext4" {
		t.Errorf("expected fstype attribution, got %+v", section.Entries[0])
	}
}

func TestCollectLargeDirs_AllMountsFail(t *testing.T) {
	// A runner with no canned outputs fails every command, like a host
	// where du is broken or absent.
	mounts := []Mount{{Mountpoint: "/", Device: "/dev/sda2"}, {Mountpoint: "/var", Device: "/dev/sda3"}}
	section := CollectLargeDirs(context.Background(), fakeRunner{}, mounts, testOptions())

	if section.Status != report.StatusUnavailable {
		t.Fatalf("expected unavailable when du fails everywhere, got %s", section.Status)
	}
	if section.Detail == "" {
		t.Error("unavailable must carry an explanation")
	}
	if len(section.Entries) != 0 {
		t.Errorf("expected zero entries, got %d", len(section.Entries))
	}
}

func TestCollectLargeDirs_PartialFailure(t *testing.T) {
	runner := fakeRunner{outputs: map[string]string{`du -x -B1 --max-depth=1 "/var"`: loadTestData(t, "du.txt")}}

	mounts := []Mount{{Mountpoint: "/var", Device: "/dev/sda2"}, {Mountpoint: "/home", Device: "/dev/sda3"}}
	section := CollectLargeDirs(context.Background(), runner, mounts, testOptions())

	if section.Status != report.StatusDegraded {
		t.Fatalf("expected degraded when one mount fails, got %s", section.Status)
	}
	if !strings.Contains(section.Detail, "/home") {
		t.Errorf("detail must name the failed mount, got %q", section.Detail)
	}
	if len(section.Entries) == 0 {
		t.Error("results from the surviving mount must be kept")
	}
}
