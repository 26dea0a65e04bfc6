package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/collect"
	"github.com/escape-velocity-ventures/tb-diskreport/internal/config"
	"github.com/escape-velocity-ventures/tb-diskreport/internal/logging"
	"github.com/escape-velocity-ventures/tb-diskreport/internal/probe"
	"github.com/escape-velocity-ventures/tb-diskreport/internal/render"
	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

var (
	// Flags
	flagQuick         bool
	flagDeep          bool
	flagTopN          int
	flagMinMB         int
	flagWithSmart     bool
	flagIncludePseudo bool
	flagOnly          string
	flagJSON          string
	flagCSV           string
	flagTxt           string
	flagColor         bool
	flagYes           bool
	flagConfig        string
	flagLogLevel      string
)

// now is stubbed in tests for deterministic timestamps.
var now = time.Now

// euid is stubbed in tests for the SMART privilege check.
var euid = os.Geteuid

var rootCmd = &cobra.Command{
	Use:   "tb-diskreport",
	Short: "One-shot storage diagnostic report for Linux hosts",
	Long: `tb-diskreport surveys a Linux host's storage subsystem in a single pass:
filesystems, physical disks, RAID/LVM/Btrfs topology, network mounts, the
largest directories and files, log and cache growth, container storage,
deleted-but-open files, swap, SMART health, and fstab consistency. It
aggregates host-wide totals, flags capacity and health issues, and renders
the result as text, JSON, or CSV. It never mutates system state.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.RunE = run
	f := rootCmd.Flags()
	f.BoolVar(&flagQuick, "quick", false, "Skip the large-file scan")
	f.BoolVar(&flagDeep, "deep", false, "Scan directories two levels deep with doubled timeouts")
	f.IntVar(&flagTopN, "topn", 20, "Number of entries in each top-N listing")
	f.IntVar(&flagMinMB, "min", 100, "Minimum file size in MB for the large-file scan")
	f.BoolVar(&flagWithSmart, "with-smart", false, "Query SMART health for each disk (requires root)")
	f.BoolVar(&flagIncludePseudo, "include-pseudo", false, "Include pseudo-filesystems (tmpfs, proc, ...)")
	f.StringVar(&flagOnly, "only", "", "Comma-separated mountpoints to analyze instead of discovery")
	f.StringVar(&flagJSON, "json", "", "Write the report as JSON, optionally to FILE")
	f.StringVar(&flagCSV, "csv", "", "Write the report as CSV, optionally to FILE")
	f.StringVar(&flagTxt, "txt", "", "Write the report as text, optionally to FILE")
	f.BoolVar(&flagColor, "color", false, "Colorize text output")
	f.BoolVar(&flagYes, "yes", false, "Assume yes at the missing-optional-tool prompt")
	f.StringVar(&flagConfig, "config", "", "Config file path (YAML)")
	f.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// The format flags take an optional FILE argument; bare --json etc.
	// means stdout.
	f.Lookup("json").NoOptDefVal = "-"
	f.Lookup("csv").NoOptDefVal = "-"
	f.Lookup("txt").NoOptDefVal = "-"
}

// Execute runs the root command.
func Execute(version string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tb-diskreport %s\n", version))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logging.Setup(flagLogLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	opts := buildOptions(cmd, cfg)
	renderCfg := resolveOutput(os.Args)

	if flagWithSmart && euid() != 0 {
		return fmt.Errorf("--with-smart requires root (run with sudo)")
	}

	runner := collect.LocalRunner{}
	check := probe.Check(ctx, runner)
	if len(check.MissingRequired) > 0 {
		names := make([]string, len(check.MissingRequired))
		for i, t := range check.MissingRequired {
			names[i] = t.Name
		}
		return fmt.Errorf("required tools missing: %s\n%s",
			strings.Join(names, ", "), probe.InstallHint(check.MissingRequired))
	}
	if len(check.MissingOptional) > 0 {
		check.Log(slog.Default())
		if !flagYes && !cfg.AssumeYes {
			if !probe.Confirm(os.Stdin, os.Stderr, "Some optional tools are missing; continue with a partial report?") {
				fmt.Fprintln(os.Stderr, "aborted")
				return nil
			}
		}
	}

	rep := buildReport(ctx, runner, opts, cfg)
	return render.Write(rep, renderCfg)
}

// buildOptions merges config-file values with flags; an explicitly set
// flag wins.
func buildOptions(cmd *cobra.Command, cfg *config.Config) collect.Options {
	opts := collect.DefaultOptions()
	opts.TopN = cfg.TopN
	opts.MinFileSizeBytes = uint64(cfg.MinFileSizeMB) << 20
	opts.CommandTimeout = time.Duration(cfg.CommandTimeout) * time.Second
	opts.DirScanTimeout = time.Duration(cfg.DirScanTimeout) * time.Second
	opts.FileScanTimeout = time.Duration(cfg.FileScanTimeout) * time.Second
	opts.ExtraExcludeFS = cfg.ExcludeFSTypes

	if cmd.Flags().Changed("topn") {
		opts.TopN = flagTopN
	}
	if cmd.Flags().Changed("min") {
		opts.MinFileSizeBytes = uint64(flagMinMB) << 20
	}
	opts.Quick = flagQuick
	opts.Deep = flagDeep
	opts.IncludePseudo = flagIncludePseudo
	if flagOnly != "" {
		for _, m := range strings.Split(flagOnly, ",") {
			if m = strings.TrimSpace(m); m != "" {
				opts.OnlyMounts = append(opts.OnlyMounts, m)
			}
		}
	}
	if opts.Deep {
		opts.DirScanDepth = 2
		opts.DirScanTimeout *= 2
		opts.FileScanTimeout *= 2
	}
	return opts
}

// resolveOutput picks the output format from the raw argument list so
// that the last format flag wins when several are given.
func resolveOutput(args []string) render.Config {
	cfg := render.Config{Format: render.FormatText, Color: flagColor, Path: flagTxt}
	for _, arg := range args {
		// Only flags select a format; a bare value such as a config
		// path named "json" must not.
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		switch name {
		case "json":
			cfg.Format, cfg.Path = render.FormatJSON, flagJSON
		case "csv":
			cfg.Format, cfg.Path = render.FormatCSV, flagCSV
		case "txt":
			cfg.Format, cfg.Path = render.FormatText, flagTxt
		}
	}
	return cfg
}

// buildReport sequences every collector. Sections run strictly in order;
// later sections reuse the mount list and disk inventory gathered early.
func buildReport(ctx context.Context, runner collect.CommandRunner, opts collect.Options, cfg *config.Config) *report.Report {
	logger := slog.Default()
	rep := &report.Report{GeneratedAt: now(), ToolVersion: rootCmd.Version}

	if info, err := host.Info(); err == nil {
		rep.Hostname = info.Hostname
		rep.OS = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		rep.Kernel = info.KernelVersion
	} else if hn, herr := os.Hostname(); herr == nil {
		rep.Hostname = hn
	}

	mounts, err := collect.EnumerateMounts(opts)
	if err != nil {
		logger.Error("mount enumeration failed", "error", err)
		rep.Filesystems.SectionMeta = report.Unavailable(err.Error())
	} else {
		rep.Filesystems = collect.CollectFilesystems(mounts)
	}

	rep.BlockDevices = collect.CollectBlockDevices(ctx, runner, opts)
	rep.MountTree = collect.CollectMountTree(ctx, runner, mounts, opts)
	rep.Raid = collect.CollectRaid(ctx, runner, opts)
	rep.Lvm = collect.CollectLvm(ctx, runner, opts)
	rep.Btrfs = collect.CollectBtrfs(ctx, runner, mounts, opts)
	// Network mounts classify the full mount table so remote shares
	// show up even when --only narrows the measured mountpoints.
	if all, aerr := collect.AllPartitions(); aerr != nil {
		rep.NetworkMounts.SectionMeta = report.Unavailable(aerr.Error())
	} else {
		rep.NetworkMounts = collect.CollectNetworkMounts(all)
	}
	rep.LargeDirs = collect.CollectLargeDirs(ctx, runner, mounts, opts)
	rep.LargeFiles = collect.CollectLargeFiles(ctx, runner, mounts, opts)
	rep.LogsCaches = collect.CollectLogsCaches(ctx, runner, opts)
	rep.Containers = collect.CollectContainers(ctx, runner, opts)
	rep.DeletedFiles = collect.CollectDeletedFiles(ctx, runner, opts)
	rep.Swap = collect.CollectSwap(ctx, runner, opts)
	if flagWithSmart {
		rep.Smart = collect.CollectSmart(ctx, runner, opts, rep.BlockDevices.Devices)
	} else {
		rep.Smart.SectionMeta = report.Skipped("enable with --with-smart")
	}
	rep.Fstab = collect.CollectFstab(ctx, runner, opts, mounts)

	rep.Totals = report.ComputeTotals(rep.Filesystems.Filesystems)
	rep.Alerts = report.EvaluateAlerts(rep, report.Thresholds{
		WarnPercent:       cfg.WarnPercent,
		CritPercent:       cfg.CritPercent,
		JournalLimitBytes: uint64(cfg.JournalLimitMB) << 20,
	})
	return rep
}
