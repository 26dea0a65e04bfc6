package report

// ComputeTotals sums capacity across filesystem records, counting each
// backing device exactly once so a bind-mounted path appearing twice in
// the mount table does not inflate the totals. Records without a device
// (rare; fuse mounts reporting an empty source) are keyed by mountpoint
// instead.
func ComputeTotals(records []FilesystemRecord) Totals {
	var t Totals
	seen := make(map[string]bool, len(records))

	for _, fs := range records {
		key := fs.Device
		if key == "" {
			key = fs.Mountpoint
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		t.TotalBytes += fs.TotalBytes
		t.UsedBytes += fs.UsedBytes
		t.AvailBytes += fs.AvailBytes
	}

	if t.TotalBytes > 0 {
		pct := int(t.UsedBytes * 100 / t.TotalBytes)
		t.UsePercent = &pct
	}
	return t
}
