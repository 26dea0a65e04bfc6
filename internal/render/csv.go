package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

var csvHeader = []string{"type", "path", "size_kb", "device", "fstype", "mountpoint"}

// renderCSV writes the large-directory and large-file findings as a flat
// table for spreadsheet import. Other sections do not flatten usefully
// and are served by the JSON format.
func renderCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range rep.LargeDirs.Entries {
		row := []string{"dir", e.Path, kb(e.SizeBytes), e.Device, e.FSType, e.Mountpoint}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	for _, e := range rep.LargeFiles.Entries {
		row := []string{"file", e.Path, kb(e.SizeBytes), e.Device, e.FSType, e.Mountpoint}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func kb(bytes uint64) string {
	return strconv.FormatUint(bytes/1024, 10)
}
