// Package render serializes a finished report as text, JSON, or CSV.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

// Format selects an output serialization.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Config controls where and how a report is written.
type Config struct {
	Format Format
	Path   string // "" or "-" means stdout
	Color  bool   // text format only
}

// Write renders the report in the configured format. Output goes to
// stdout unless Path names a file.
func Write(rep *report.Report, cfg Config) error {
	var w io.Writer = os.Stdout
	if cfg.Path != "" && cfg.Path != "-" {
		f, err := os.Create(cfg.Path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return Render(w, rep, cfg)
}

// Render writes the report to w in the configured format.
func Render(w io.Writer, rep *report.Report, cfg Config) error {
	switch cfg.Format {
	case FormatJSON:
		return renderJSON(w, rep)
	case FormatCSV:
		return renderCSV(w, rep)
	case FormatText, "":
		return renderText(w, rep, cfg.Color)
	default:
		return fmt.Errorf("unknown output format %q", cfg.Format)
	}
}
