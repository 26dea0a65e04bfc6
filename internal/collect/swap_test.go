package collect

import "testing"

func TestParseSwapon(t *testing.T) {
	devices := ParseSwapon(loadTestData(t, "swapon.txt"))

	if len(devices) != 2 {
		t.Fatalf("expected 2 swap devices, got %d", len(devices))
	}

	part := devices[0]
	if part.Name != "/dev/dm-1" || part.Type != "partition" {
		t.Errorf("unexpected first device: %+v", part)
	}
	if part.SizeBytes != 17179869184 || part.UsedBytes != 4294967296 {
		t.Errorf("unexpected sizes: %+v", part)
	}
	if part.Priority != -2 {
		t.Errorf("expected priority -2, got %d", part.Priority)
	}

	file := devices[1]
	if file.Name != "/swapfile" || file.Type != "file" || file.UsedBytes != 0 {
		t.Errorf("unexpected second device: %+v", file)
	}
}

func TestParseSwapon_Empty(t *testing.T) {
	if devices := ParseSwapon(""); len(devices) != 0 {
		t.Errorf("expected no devices, got %d", len(devices))
	}
}
