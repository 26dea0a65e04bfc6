package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

func sampleReport() *report.Report {
	pct := 65
	rep := &report.Report{
		GeneratedAt: time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
		Hostname:    "host1",
		OS:          "ubuntu 24.04",
		Kernel:      "6.8.0-41-generic",
		ToolVersion: "1.0.0",
		Totals:      report.Totals{TotalBytes: 300000000, UsedBytes: 195000000, AvailBytes: 105000000, UsePercent: &pct},
	}
	rep.Filesystems = report.FilesystemSection{
		SectionMeta: report.OK(),
		Filesystems: []report.FilesystemRecord{
			{Mountpoint: "/", Device: "/dev/sda2", FSType: "ext4", TotalBytes: 100000000, UsedBytes: 95000000, AvailBytes: 5000000, UsePercent: 95},
			{Mountpoint: "/home", Device: "/dev/sda3", FSType: "ext4", TotalBytes: 200000000, UsedBytes: 100000000, AvailBytes: 100000000, UsePercent: 50},
		},
	}
	rep.BlockDevices = report.BlockDeviceSection{
		SectionMeta: report.OK(),
		Devices: []report.BlockDevice{
			{Path: "/dev/sda", SizeBytes: 512110190592, Model: "Samsung SSD 870", DiskType: "SSD", Transport: "sata"},
		},
	}
	rep.LargeDirs = report.LargeDirSection{
		SectionMeta: report.OK(),
		Entries: []report.DirEntry{
			{Path: "/var/lib", SizeBytes: 53687091200, Device: "/dev/sda2", FSType: "ext4", Mountpoint: "/"},
		},
	}
	rep.LargeFiles = report.LargeFileSection{
		SectionMeta: report.Skipped("large-file scan disabled by --quick"),
	}
	rep.Raid = report.RaidSection{SectionMeta: report.NotPresent("no md arrays found")}
	rep.Alerts = report.AlertSummary{Evaluated: true, Alerts: []report.Alert{
		{Severity: report.SeverityCritical, Subject: "/", Message: "filesystem 95% full"},
	}}
	return rep
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Config{Format: FormatJSON}); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Hostname != "host1" {
		t.Errorf("expected hostname host1, got %s", decoded.Hostname)
	}
	if len(decoded.Filesystems.Filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(decoded.Filesystems.Filesystems))
	}
	if decoded.Filesystems.Filesystems[0].UsePercent != 95 {
		t.Errorf("expected 95%% for root, got %d", decoded.Filesystems.Filesystems[0].UsePercent)
	}
	if decoded.Totals.UsePercent == nil || *decoded.Totals.UsePercent != 65 {
		t.Errorf("expected 65%% totals, got %v", decoded.Totals.UsePercent)
	}
	if decoded.LargeFiles.Status != report.StatusSkipped {
		t.Errorf("expected skipped status to survive, got %s", decoded.LargeFiles.Status)
	}
	if len(decoded.Alerts.Alerts) != 1 || decoded.Alerts.Alerts[0].Severity != report.SeverityCritical {
		t.Errorf("unexpected alerts: %+v", decoded.Alerts)
	}
}

func TestRenderCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Config{Format: FormatCSV}); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "type,path,size_kb,device,fstype,mountpoint" {
		t.Errorf("unexpected header %q", got)
	}
	row := rows[1]
	if row[0] != "dir" || row[1] != "/var/lib" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[2] != "52428800" { // 53687091200 bytes in KB
		t.Errorf("expected size_kb 52428800, got %s", row[2])
	}
	if row[3] != "/dev/sda2" || row[4] != "ext4" || row[5] != "/" {
		t.Errorf("unexpected attribution columns: %v", row)
	}
}

func TestRender_Deterministic(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON, FormatCSV} {
		var a, b bytes.Buffer
		if err := Render(&a, sampleReport(), Config{Format: format}); err != nil {
			t.Fatalf("%s: render failed: %v", format, err)
		}
		if err := Render(&b, sampleReport(), Config{Format: format}); err != nil {
			t.Fatalf("%s: render failed: %v", format, err)
		}
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("%s output is not byte-stable", format)
		}
	}
}

func TestRenderText_Sections(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Config{Format: FormatText}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Storage report for host1",
		"== Filesystems ==",
		"== Totals ==",
		"== Alerts ==",
		"[CRITICAL] /: filesystem 95% full",
		"/dev/sda2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}

	// skip and not-present notices are explicit, not silently empty
	if !strings.Contains(out, "disabled by --quick") {
		t.Error("expected an explicit skip notice for the large-file section")
	}
	if !strings.Contains(out, "not_present") {
		t.Error("expected a not-present notice for the RAID section")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Config{Format: "yaml"}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{104857600, "100.0 MiB"},
		{4080218931, "3.8 GiB"},
	}
	for _, c := range cases {
		if got := humanBytes(c.in); got != c.want {
			t.Errorf("humanBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
