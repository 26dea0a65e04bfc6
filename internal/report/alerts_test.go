package report

import "testing"

func filesystemReport(records ...FilesystemRecord) *Report {
	return &Report{Filesystems: FilesystemSection{SectionMeta: OK(), Filesystems: records}}
}

func countBySeverity(alerts []Alert) (critical, warning int) {
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			critical++
		case SeverityWarning:
			warning++
		}
	}
	return
}

func TestEvaluateAlerts_SpaceThresholds(t *testing.T) {
	cases := []struct {
		pct          int
		wantCritical int
		wantWarning  int
	}{
		{95, 1, 0},
		{90, 1, 0},
		{89, 0, 1},
		{80, 0, 1},
		{79, 0, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		rep := filesystemReport(FilesystemRecord{Mountpoint: "/", UsePercent: c.pct})
		summary := EvaluateAlerts(rep, DefaultThresholds())

		if !summary.Evaluated {
			t.Fatal("summary must be marked evaluated")
		}
		critical, warning := countBySeverity(summary.Alerts)
		if critical != c.wantCritical || warning != c.wantWarning {
			t.Errorf("use%%=%d: got %d critical %d warning, want %d/%d",
				c.pct, critical, warning, c.wantCritical, c.wantWarning)
		}
	}
}

func TestEvaluateAlerts_InodesIndependent(t *testing.T) {
	inode := 92
	rep := filesystemReport(FilesystemRecord{Mountpoint: "/", UsePercent: 40, InodeUsePercent: &inode})

	summary := EvaluateAlerts(rep, DefaultThresholds())

	critical, warning := countBySeverity(summary.Alerts)
	if critical != 1 || warning != 0 {
		t.Errorf("expected 1 critical inode alert, got %d critical %d warning", critical, warning)
	}
}

func TestEvaluateAlerts_Scenario(t *testing.T) {
	rep := filesystemReport(
		FilesystemRecord{Mountpoint: "/", FSType: "ext4", TotalBytes: 100000000, UsedBytes: 95000000, AvailBytes: 5000000, UsePercent: 95},
		FilesystemRecord{Mountpoint: "/home", FSType: "ext4", TotalBytes: 200000000, UsedBytes: 100000000, AvailBytes: 100000000, UsePercent: 50},
	)

	summary := EvaluateAlerts(rep, DefaultThresholds())

	if len(summary.Alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d: %v", len(summary.Alerts), summary.Alerts)
	}
	a := summary.Alerts[0]
	if a.Severity != SeverityCritical || a.Subject != "/" {
		t.Errorf("expected critical alert for /, got %+v", a)
	}
}

func TestEvaluateAlerts_Raid(t *testing.T) {
	rep := &Report{Raid: RaidSection{SectionMeta: OK(), Arrays: []RaidArray{
		{Device: "/dev/md0", Degraded: true, ActiveDevices: 1, TotalDevices: 2},
		{Device: "/dev/md1", Recovering: true, RebuildPercent: 18.5},
	}}}

	summary := EvaluateAlerts(rep, DefaultThresholds())

	critical, warning := countBySeverity(summary.Alerts)
	if critical != 1 || warning != 1 {
		t.Fatalf("expected 1 critical + 1 warning, got %d/%d", critical, warning)
	}
	// critical sorts first
	if summary.Alerts[0].Subject != "/dev/md0" {
		t.Errorf("expected degraded array first, got %s", summary.Alerts[0].Subject)
	}
}

func TestEvaluateAlerts_JournalLimit(t *testing.T) {
	rep := &Report{LogsCaches: LogCacheSection{SectionMeta: OK(), JournalBytes: 5 << 30}}
	summary := EvaluateAlerts(rep, DefaultThresholds())
	if _, warning := countBySeverity(summary.Alerts); warning != 1 {
		t.Errorf("expected journal warning, got %v", summary.Alerts)
	}

	rep.LogsCaches.JournalBytes = 4 << 30
	summary = EvaluateAlerts(rep, DefaultThresholds())
	if len(summary.Alerts) != 0 {
		t.Errorf("journal exactly at the limit must not alert, got %v", summary.Alerts)
	}
}

func TestEvaluateAlerts_DeletedFiles(t *testing.T) {
	rep := &Report{DeletedFiles: DeletedFileSection{SectionMeta: OK(), Files: []DeletedFile{
		{Command: "java", PID: 2204, SizeBytes: 2147483648, Path: "/var/log/tomcat/catalina.out"},
	}}}

	summary := EvaluateAlerts(rep, DefaultThresholds())

	if _, warning := countBySeverity(summary.Alerts); warning != 1 {
		t.Errorf("expected one warning for deleted-open files, got %v", summary.Alerts)
	}
}

func TestEvaluateAlerts_NoIssues(t *testing.T) {
	summary := EvaluateAlerts(filesystemReport(FilesystemRecord{Mountpoint: "/", UsePercent: 10}), DefaultThresholds())

	if !summary.NoIssues() {
		t.Error("expected explicit no-issues result")
	}

	var unevaluated AlertSummary
	if unevaluated.NoIssues() {
		t.Error("a summary that never ran must not claim no issues")
	}
}

func TestSortAlerts_Deterministic(t *testing.T) {
	alerts := []Alert{
		{Severity: SeverityWarning, Subject: "/b", Message: "m"},
		{Severity: SeverityCritical, Subject: "/z", Message: "m"},
		{Severity: SeverityWarning, Subject: "/a", Message: "m"},
		{Severity: SeverityCritical, Subject: "/a", Message: "m"},
	}
	sortAlerts(alerts)

	want := []string{"/a", "/z", "/a", "/b"}
	for i, a := range alerts {
		if a.Subject != want[i] {
			t.Fatalf("position %d: got %s, want %s (%v)", i, a.Subject, want[i], alerts)
		}
	}
}
