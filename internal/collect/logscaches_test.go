package collect

import "testing"

func TestParseJournalDiskUsage(t *testing.T) {
	size, ok := ParseJournalDiskUsage(loadTestData(t, "journalctl-disk-usage.txt"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	// 3.8G rounded to whole bytes
	if size != 4080218931 {
		t.Errorf("expected 4080218931 bytes, got %d", size)
	}
}

func TestParseJournalDiskUsage_Garbage(t *testing.T) {
	if _, ok := ParseJournalDiskUsage("journalctl: command not found"); ok {
		t.Error("expected parse failure")
	}
}

func TestParseHumanSize(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"512B", 512, true},
		{"56.0M", 58720256, true},
		{"3.8G", 4080218931, true},
		{"1K", 1024, true},
		{"2T", 2199023255552, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseHumanSize(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseHumanSize(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCountSnapPackages(t *testing.T) {
	output := "Name    Version   Rev    Tracking       Publisher   Notes\n" +
		"core22  20240823  1612   latest/stable  canonical   base\n" +
		"lxd     5.21.2    29551  latest/stable  canonical   -\n"
	if n := countSnapPackages(output); n != 2 {
		t.Errorf("expected 2 snaps, got %d", n)
	}
	if n := countSnapPackages(""); n != 0 {
		t.Errorf("expected 0 snaps for empty output, got %d", n)
	}
}
