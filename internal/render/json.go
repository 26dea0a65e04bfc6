package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// renderJSON writes the full report as indented JSON with a trailing
// newline. Timestamps are normalized to UTC so two runs on the same
// state produce identical bytes regardless of host timezone.
func renderJSON(w io.Writer, rep *report.Report) error {
	out := *rep
	out.GeneratedAt = rep.GeneratedAt.UTC()

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
