package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

type textRenderer struct {
	w     io.Writer
	color bool

	title    lipgloss.Style
	section  lipgloss.Style
	muted    lipgloss.Style
	warning  lipgloss.Style
	critical lipgloss.Style
	good     lipgloss.Style
}

func newTextRenderer(w io.Writer, color bool) *textRenderer {
	r := &textRenderer{w: w, color: color}
	if !color {
		plain := lipgloss.NewStyle()
		r.title, r.section, r.muted, r.warning, r.critical, r.good = plain, plain, plain, plain, plain, plain
		return r
	}
	r.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7571f9"))
	r.section = lipgloss.NewStyle().Bold(true)
	r.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	r.warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9f43"))
	r.critical = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b")).Bold(true)
	r.good = lipgloss.NewStyle().Foreground(lipgloss.Color("#42c767"))
	return r
}

func renderText(w io.Writer, rep *report.Report, color bool) error {
	r := newTextRenderer(w, color)

	r.printf("%s\n", r.title.Render(fmt.Sprintf("Storage report for %s", rep.Hostname)))
	r.printf("generated %s", rep.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	if rep.OS != "" {
		r.printf("  |  %s", rep.OS)
	}
	if rep.Kernel != "" {
		r.printf("  |  kernel %s", rep.Kernel)
	}
	r.printf("  |  tb-diskreport %s\n", rep.ToolVersion)

	r.filesystems(rep)
	r.totals(rep)
	r.alerts(rep)
	r.blockDevices(rep.BlockDevices)
	r.mountTree(rep.MountTree)
	r.raid(rep.Raid)
	r.lvm(rep.Lvm)
	r.btrfs(rep.Btrfs)
	r.networkMounts(rep.NetworkMounts)
	r.largeDirs(rep.LargeDirs)
	r.largeFiles(rep.LargeFiles)
	r.logsCaches(rep.LogsCaches)
	r.containers(rep.Containers)
	r.deletedFiles(rep.DeletedFiles)
	r.swap(rep.Swap)
	r.smart(rep.Smart)
	r.fstab(rep.Fstab)
	return nil
}

func (r *textRenderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// header prints the section banner and, for anything but ok, a status
// note. It reports whether the caller should render the section body.
func (r *textRenderer) header(name string, meta report.SectionMeta) bool {
	r.printf("\n%s\n", r.section.Render("== "+name+" =="))
	switch meta.Status {
	case report.StatusOK:
		return true
	case report.StatusDegraded:
		r.printf("%s\n", r.warning.Render("partial results: "+meta.Detail))
		return true
	default:
		r.printf("%s\n", r.muted.Render(fmt.Sprintf("(%s: %s)", meta.Status, meta.Detail)))
		return false
	}
}

func (r *textRenderer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.section.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	r.printf("%s\n", t.String())
}

func (r *textRenderer) filesystems(rep *report.Report) {
	if !r.header("Filesystems", rep.Filesystems.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(rep.Filesystems.Filesystems))
	for _, fs := range rep.Filesystems.Filesystems {
		use := r.percentCell(fs.UsePercent)
		inode := "-"
		if fs.InodeUsePercent != nil {
			inode = r.percentCell(*fs.InodeUsePercent)
		}
		rows = append(rows, []string{
			fs.Mountpoint, fs.Device, fs.FSType,
			humanBytes(fs.TotalBytes), humanBytes(fs.UsedBytes), humanBytes(fs.AvailBytes),
			use, inode,
		})
	}
	r.table([]string{"MOUNT", "DEVICE", "FSTYPE", "SIZE", "USED", "AVAIL", "USE%", "INODE%"}, rows)
}

func (r *textRenderer) percentCell(pct int) string {
	s := strconv.Itoa(pct) + "%"
	switch {
	case pct >= 90:
		return r.critical.Render(s)
	case pct >= 80:
		return r.warning.Render(s)
	default:
		return s
	}
}

func (r *textRenderer) totals(rep *report.Report) {
	r.printf("\n%s\n", r.section.Render("== Totals =="))
	t := rep.Totals
	use := "n/a"
	if t.UsePercent != nil {
		use = r.percentCell(*t.UsePercent)
	}
	r.printf("capacity %s, used %s, available %s, usage %s\n",
		humanBytes(t.TotalBytes), humanBytes(t.UsedBytes), humanBytes(t.AvailBytes), use)
}

func (r *textRenderer) alerts(rep *report.Report) {
	r.printf("\n%s\n", r.section.Render("== Alerts =="))
	if !rep.Alerts.Evaluated {
		r.printf("%s\n", r.muted.Render("(not evaluated)"))
		return
	}
	if rep.Alerts.NoIssues() {
		r.printf("%s\n", r.good.Render("no issues found"))
		return
	}
	for _, a := range rep.Alerts.Alerts {
		style := r.warning
		if a.Severity == report.SeverityCritical {
			style = r.critical
		}
		r.printf("%s %s: %s\n", style.Render("["+strings.ToUpper(string(a.Severity))+"]"), a.Subject, a.Message)
	}
}

func (r *textRenderer) blockDevices(s report.BlockDeviceSection) {
	if !r.header("Physical disks", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Devices))
	for _, d := range s.Devices {
		rows = append(rows, []string{
			d.Path, humanBytes(d.SizeBytes), d.DiskType, d.Model, d.Serial, d.Transport,
		})
	}
	r.table([]string{"DEVICE", "SIZE", "TYPE", "MODEL", "SERIAL", "TRANSPORT"}, rows)
}

func (r *textRenderer) mountTree(s report.MountTreeSection) {
	if !r.header("Mount topology", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Edges))
	for _, e := range s.Edges {
		rows = append(rows, []string{e.Mountpoint, e.Source, e.FSType, e.Disk})
	}
	r.table([]string{"MOUNT", "SOURCE", "FSTYPE", "DISK"}, rows)
}

func (r *textRenderer) raid(s report.RaidSection) {
	if !r.header("RAID", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Arrays))
	for _, a := range s.Arrays {
		state := a.State
		switch {
		case a.Degraded:
			state = r.critical.Render(state)
		case a.Recovering:
			state = r.warning.Render(fmt.Sprintf("%s (%.1f%%)", a.State, a.RebuildPercent))
		}
		rows = append(rows, []string{
			a.Device, a.Level, state,
			fmt.Sprintf("%d/%d", a.ActiveDevices, a.TotalDevices),
			strings.Join(a.Members, " "),
		})
	}
	r.table([]string{"ARRAY", "LEVEL", "STATE", "DEVICES", "MEMBERS"}, rows)
}

func (r *textRenderer) lvm(s report.LvmSection) {
	if !r.header("LVM", s.SectionMeta) {
		return
	}
	if len(s.VGs) > 0 {
		rows := make([][]string, 0, len(s.VGs))
		for _, vg := range s.VGs {
			rows = append(rows, []string{
				vg.Name, strconv.Itoa(vg.PVCount), strconv.Itoa(vg.LVCount),
				humanBytes(vg.SizeBytes), humanBytes(vg.FreeBytes),
			})
		}
		r.table([]string{"VG", "PVS", "LVS", "SIZE", "FREE"}, rows)
	}
	if len(s.LVs) > 0 {
		rows := make([][]string, 0, len(s.LVs))
		for _, lv := range s.LVs {
			rows = append(rows, []string{lv.VG + "/" + lv.Name, lv.Attr, humanBytes(lv.SizeBytes)})
		}
		r.table([]string{"LV", "ATTR", "SIZE"}, rows)
	}
	if len(s.PVs) > 0 {
		rows := make([][]string, 0, len(s.PVs))
		for _, pv := range s.PVs {
			rows = append(rows, []string{pv.Name, pv.VG, humanBytes(pv.SizeBytes), humanBytes(pv.FreeBytes)})
		}
		r.table([]string{"PV", "VG", "SIZE", "FREE"}, rows)
	}
}

func (r *textRenderer) btrfs(s report.BtrfsSection) {
	if !r.header("Btrfs", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Filesystems))
	for _, fs := range s.Filesystems {
		rows = append(rows, []string{
			fs.Mountpoint, humanBytes(fs.DeviceSizeBytes), humanBytes(fs.UsedBytes), humanBytes(fs.FreeEstimatedBytes),
		})
	}
	r.table([]string{"MOUNT", "SIZE", "USED", "FREE (EST)"}, rows)
}

func (r *textRenderer) networkMounts(s report.NetworkMountSection) {
	if !r.header("Network mounts", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Mounts))
	for _, m := range s.Mounts {
		rows = append(rows, []string{m.Mountpoint, m.Source, m.FSType})
	}
	r.table([]string{"MOUNT", "SOURCE", "FSTYPE"}, rows)
}

func (r *textRenderer) largeDirs(s report.LargeDirSection) {
	if !r.header("Largest directories", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, []string{humanBytes(e.SizeBytes), e.Path, e.Mountpoint})
	}
	r.table([]string{"SIZE", "PATH", "MOUNT"}, rows)
}

func (r *textRenderer) largeFiles(s report.LargeFileSection) {
	if !r.header("Largest files", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, []string{humanBytes(e.SizeBytes), e.Path, e.Mountpoint})
	}
	r.table([]string{"SIZE", "PATH", "MOUNT"}, rows)
}

func (r *textRenderer) logsCaches(s report.LogCacheSection) {
	if !r.header("Logs and caches", s.SectionMeta) {
		return
	}
	r.printf("journald usage: %s\n", humanBytes(s.JournalBytes))
	for _, p := range s.Paths {
		r.printf("%-12s %s\n", humanBytes(p.SizeBytes), p.Path)
	}
	if s.SnapCount > 0 {
		r.printf("%d snap packages using %s\n", s.SnapCount, humanBytes(s.SnapBytes))
	}
}

func (r *textRenderer) containers(s report.ContainerSection) {
	if !r.header("Containers", s.SectionMeta) {
		return
	}
	r.printf("runtime: %s %s\n", s.Runtime, s.Version)
	if len(s.Usage) > 0 {
		rows := make([][]string, 0, len(s.Usage))
		for _, u := range s.Usage {
			rows = append(rows, []string{
				u.Kind, strconv.Itoa(u.Count), strconv.Itoa(u.Active), humanBytes(u.SizeBytes), u.Reclaimable,
			})
		}
		r.table([]string{"TYPE", "COUNT", "ACTIVE", "SIZE", "RECLAIMABLE"}, rows)
	}
	if len(s.Containers) > 0 {
		rows := make([][]string, 0, len(s.Containers))
		for _, c := range s.Containers {
			rows = append(rows, []string{c.ID, c.Name, c.Image, c.State})
		}
		r.table([]string{"ID", "NAME", "IMAGE", "STATUS"}, rows)
	}
}

func (r *textRenderer) deletedFiles(s report.DeletedFileSection) {
	if !r.header("Deleted but open files", s.SectionMeta) {
		return
	}
	if len(s.Files) == 0 {
		r.printf("%s\n", r.good.Render("none"))
		return
	}
	rows := make([][]string, 0, len(s.Files))
	for _, f := range s.Files {
		rows = append(rows, []string{
			humanBytes(f.SizeBytes), f.Command, strconv.Itoa(f.PID), f.User, f.Path,
		})
	}
	r.table([]string{"SIZE", "COMMAND", "PID", "USER", "PATH"}, rows)
}

func (r *textRenderer) swap(s report.SwapSection) {
	if !r.header("Swap and tmpfs", s.SectionMeta) {
		return
	}
	r.printf("swap total %s, used %s\n", humanBytes(s.TotalBytes), humanBytes(s.UsedBytes))
	if len(s.Devices) > 0 {
		rows := make([][]string, 0, len(s.Devices))
		for _, d := range s.Devices {
			rows = append(rows, []string{
				d.Name, d.Type, humanBytes(d.SizeBytes), humanBytes(d.UsedBytes), strconv.Itoa(d.Priority),
			})
		}
		r.table([]string{"NAME", "TYPE", "SIZE", "USED", "PRIO"}, rows)
	}
	if len(s.Tmpfs) > 0 {
		rows := make([][]string, 0, len(s.Tmpfs))
		for _, fs := range s.Tmpfs {
			rows = append(rows, []string{
				fs.Mountpoint, humanBytes(fs.TotalBytes), humanBytes(fs.UsedBytes), r.percentCell(fs.UsePercent),
			})
		}
		r.table([]string{"TMPFS MOUNT", "SIZE", "USED", "USE%"}, rows)
	}
}

func (r *textRenderer) smart(s report.SmartSection) {
	if !r.header("SMART health", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Disks))
	for _, d := range s.Disks {
		health := r.good.Render(d.HealthStatus)
		if !d.Healthy {
			health = r.critical.Render(d.HealthStatus)
		}
		rows = append(rows, []string{
			d.Device, d.Model, d.Kind, health,
			intCell(d.TemperatureC), int64Cell(d.PowerOnHours), int64Cell(d.ReallocatedSectors), intCell(d.PercentUsed),
		})
	}
	r.table([]string{"DEVICE", "MODEL", "KIND", "HEALTH", "TEMP", "HOURS", "REALLOC", "WEAR%"}, rows)
}

func (r *textRenderer) fstab(s report.FstabSection) {
	if !r.header("fstab", s.SectionMeta) {
		return
	}
	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		mounted := r.good.Render("yes")
		if !e.Mounted {
			mounted = r.warning.Render("no")
		}
		rows = append(rows, []string{e.Device, e.Mountpoint, e.FSType, e.Options, mounted})
	}
	r.table([]string{"DEVICE", "MOUNT", "FSTYPE", "OPTIONS", "MOUNTED"}, rows)
}

func intCell(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func int64Cell(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

// humanBytes formats a byte count with binary units, one decimal place
// above KiB.
func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
