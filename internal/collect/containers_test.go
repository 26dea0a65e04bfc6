package collect

import "testing"

func TestParseContainerDf(t *testing.T) {
	rows := ParseContainerDf(loadTestData(t, "docker-df.txt"))

	if len(rows) != 4 {
		t.Fatalf("expected 4 usage rows, got %d", len(rows))
	}
	images := rows[0]
	if images.Kind != "Images" || images.Count != 14 || images.Active != 5 {
		t.Errorf("unexpected images row: %+v", images)
	}
	if images.SizeBytes != 9821000000 {
		t.Errorf("expected 9821000000 bytes, got %d", images.SizeBytes)
	}
	if images.Reclaimable != "6.4GB (65%)" {
		t.Errorf("unexpected reclaimable %q", images.Reclaimable)
	}
}

func TestParseContainerPs(t *testing.T) {
	items := ParseContainerPs(loadTestData(t, "docker-ps.txt"))

	if len(items) != 3 {
		t.Fatalf("expected 3 containers, got %d", len(items))
	}
	if items[0].ID != "f3a91c20b4d7" || items[0].Name != "webapp" {
		t.Errorf("unexpected first container: %+v", items[0])
	}
	if items[1].Image != "postgres:16" || items[1].State != "Up 3 days (healthy)" {
		t.Errorf("unexpected second container: %+v", items[1])
	}
}

func TestParseDockerSize(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"0B", 0, true},
		{"412.7MB", 412700000, true},
		{"9.821GB", 9821000000, true},
		{"1.5kB", 1500, true},
		{"2TB", 2000000000000, true},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDockerSize(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseDockerSize(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
