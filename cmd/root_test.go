package cmd

import (
	"testing"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/render"
)

func TestResolveOutput_LastOneWins(t *testing.T) {
	flagJSON, flagCSV, flagTxt = "-", "out.csv", ""
	defer func() { flagJSON, flagCSV, flagTxt = "", "", "" }()

	cfg := resolveOutput([]string{"tb-diskreport", "--json", "--csv", "out.csv"})
	if cfg.Format != render.FormatCSV || cfg.Path != "out.csv" {
		t.Errorf("expected csv to win, got %+v", cfg)
	}

	cfg = resolveOutput([]string{"tb-diskreport", "--csv", "out.csv", "--json"})
	if cfg.Format != render.FormatJSON || cfg.Path != "-" {
		t.Errorf("expected json to win, got %+v", cfg)
	}
}

func TestResolveOutput_EqualsSyntax(t *testing.T) {
	flagJSON = "report.json"
	defer func() { flagJSON = "" }()

	cfg := resolveOutput([]string{"tb-diskreport", "--json=report.json"})
	if cfg.Format != render.FormatJSON || cfg.Path != "report.json" {
		t.Errorf("expected json to file, got %+v", cfg)
	}
}

func TestResolveOutput_IgnoresFlagValues(t *testing.T) {
	// A flag value that happens to spell a format name must not change
	// the output format.
	cfg := resolveOutput([]string{"tb-diskreport", "--config", "json"})
	if cfg.Format != render.FormatText {
		t.Errorf("expected text for --config json, got %+v", cfg)
	}

	cfg = resolveOutput([]string{"tb-diskreport", "--only", "csv"})
	if cfg.Format != render.FormatText {
		t.Errorf("expected text for --only csv, got %+v", cfg)
	}
}

func TestResolveOutput_Default(t *testing.T) {
	cfg := resolveOutput([]string{"tb-diskreport", "--quick"})
	if cfg.Format != render.FormatText {
		t.Errorf("expected text default, got %+v", cfg)
	}
}

func TestSmartPrivilegeCheck(t *testing.T) {
	origEuid := euid
	defer func() { euid = origEuid; flagWithSmart = false }()

	euid = func() int { return 1000 }
	flagWithSmart = true

	rootCmd.SetArgs([]string{"--with-smart"})
	err := run(rootCmd, nil)
	if err == nil {
		t.Fatal("expected privilege error for --with-smart without root")
	}
}
