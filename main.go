// tb-diskreport — one-shot storage diagnostic report for Linux hosts.
//
// A single binary that surveys filesystems, disks, RAID/LVM/Btrfs,
// large files, logs, containers, swap, and SMART health, then renders
// a report as text, JSON, or CSV.
//
// Usage:
//
//	tb-diskreport                       # text report on stdout
//	tb-diskreport --json report.json    # JSON to a file
//	sudo tb-diskreport --with-smart     # include SMART health
//	tb-diskreport --quick               # skip the large-file scan
package main

import "github.com/escape-velocity-ventures/tb-diskreport/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
