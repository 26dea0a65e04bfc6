package report

import (
	"fmt"
	"sort"
)

// Thresholds configures alert evaluation.
type Thresholds struct {
	WarnPercent       int
	CritPercent       int
	JournalLimitBytes uint64
}

// DefaultThresholds matches the documented policy: warn at 80%, go
// critical at 90%, flag journals above 4 GiB.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WarnPercent:       80,
		CritPercent:       90,
		JournalLimitBytes: 4 << 30,
	}
}

type alertCheck func(*Report, Thresholds) []Alert

var alertChecks = []alertCheck{
	checkFilesystemSpace,
	checkFilesystemInodes,
	checkRaid,
	checkJournalSize,
	checkDeletedFiles,
}

// EvaluateAlerts runs every check against the collected report and
// returns an evaluated summary. An empty alert list here means "no
// issues", never "not yet computed".
func EvaluateAlerts(r *Report, t Thresholds) AlertSummary {
	var alerts []Alert
	for _, check := range alertChecks {
		alerts = append(alerts, check(r, t)...)
	}
	sortAlerts(alerts)
	return AlertSummary{Evaluated: true, Alerts: alerts}
}

// classify maps a use percentage to at most one severity.
func classify(pct int, t Thresholds) (Severity, bool) {
	switch {
	case pct >= t.CritPercent:
		return SeverityCritical, true
	case pct >= t.WarnPercent:
		return SeverityWarning, true
	default:
		return "", false
	}
}

func checkFilesystemSpace(r *Report, t Thresholds) []Alert {
	var alerts []Alert
	for _, fs := range r.Filesystems.Filesystems {
		if sev, ok := classify(fs.UsePercent, t); ok {
			alerts = append(alerts, Alert{
				Severity: sev,
				Subject:  fs.Mountpoint,
				Message:  fmt.Sprintf("filesystem %d%% full", fs.UsePercent),
			})
		}
	}
	return alerts
}

func checkFilesystemInodes(r *Report, t Thresholds) []Alert {
	var alerts []Alert
	for _, fs := range r.Filesystems.Filesystems {
		if fs.InodeUsePercent == nil {
			continue
		}
		if sev, ok := classify(*fs.InodeUsePercent, t); ok {
			alerts = append(alerts, Alert{
				Severity: sev,
				Subject:  fs.Mountpoint,
				Message:  fmt.Sprintf("inode table %d%% full", *fs.InodeUsePercent),
			})
		}
	}
	return alerts
}

func checkRaid(r *Report, _ Thresholds) []Alert {
	var alerts []Alert
	for _, arr := range r.Raid.Arrays {
		switch {
		case arr.Degraded:
			alerts = append(alerts, Alert{
				Severity: SeverityCritical,
				Subject:  arr.Device,
				Message:  fmt.Sprintf("RAID array degraded (%d/%d devices active)", arr.ActiveDevices, arr.TotalDevices),
			})
		case arr.Recovering:
			alerts = append(alerts, Alert{
				Severity: SeverityWarning,
				Subject:  arr.Device,
				Message:  fmt.Sprintf("RAID array recovering (%.1f%% complete)", arr.RebuildPercent),
			})
		}
	}
	return alerts
}

func checkJournalSize(r *Report, t Thresholds) []Alert {
	if t.JournalLimitBytes == 0 || r.LogsCaches.JournalBytes <= t.JournalLimitBytes {
		return nil
	}
	return []Alert{{
		Severity: SeverityWarning,
		Subject:  "journald",
		Message:  fmt.Sprintf("journal uses %d bytes (limit %d)", r.LogsCaches.JournalBytes, t.JournalLimitBytes),
	}}
}

func checkDeletedFiles(r *Report, _ Thresholds) []Alert {
	if len(r.DeletedFiles.Files) == 0 {
		return nil
	}
	var total uint64
	for _, f := range r.DeletedFiles.Files {
		total += f.SizeBytes
	}
	return []Alert{{
		Severity: SeverityWarning,
		Subject:  "deleted-open-files",
		Message:  fmt.Sprintf("%d deleted files still held open (%d bytes unreclaimed)", len(r.DeletedFiles.Files), total),
	}}
}

var severityOrder = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
}

// sortAlerts orders critical before warning, then by subject, then
// message, so identical inputs always render identically.
func sortAlerts(alerts []Alert) {
	sort.Slice(alerts, func(i, j int) bool {
		oi, oj := severityOrder[alerts[i].Severity], severityOrder[alerts[j].Severity]
		if oi != oj {
			return oi < oj
		}
		if alerts[i].Subject != alerts[j].Subject {
			return alerts[i].Subject < alerts[j].Subject
		}
		return alerts[i].Message < alerts[j].Message
	})
}
