package collect

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/escape-velocity-ventures/tb-diskreport/internal/report"
)

const lsblkCommand = "lsblk -J -b -o NAME,PATH,SIZE,TYPE,MODEL,SERIAL,WWN,ROTA,TRAN,HCTL 2>/dev/null"

// CollectBlockDevices inventories physical and logical disks from
// lsblk JSON output. Loop and rom devices are excluded.
func CollectBlockDevices(ctx context.Context, runner CommandRunner, opts Options) report.BlockDeviceSection {
	out, err := runTimeout(ctx, runner, opts.CommandTimeout, lsblkCommand)
	if err != nil {
		return report.BlockDeviceSection{SectionMeta: report.Unavailable("lsblk: " + err.Error())}
	}

	devices := ParseLsblkDevices(out)
	if devices == nil {
		return report.BlockDeviceSection{SectionMeta: report.Unavailable("lsblk produced no parseable output")}
	}
	return report.BlockDeviceSection{SectionMeta: report.OK(), Devices: devices}
}

// lsblkDoc matches the JSON structure from lsblk -J -b.
type lsblkDoc struct {
	Blockdevices []lsblkEntry `json:"blockdevices"`
}

type lsblkEntry struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Size     json.Number  `json:"size"`
	Type     string       `json:"type"` // "disk", "part", "lvm", "raid1", "rom", "loop"
	Model    *string      `json:"model"`
	Serial   *string      `json:"serial"`
	WWN      *string      `json:"wwn"`
	Rota     json.Number  `json:"rota"`
	Tran     *string      `json:"tran"`
	HCTL     *string      `json:"hctl"`
	Children []lsblkEntry `json:"children"`
}

// ParseLsblkDevices parses lsblk -J -b output into BlockDevice records.
// Exported for testing. Returns nil on malformed input.
func ParseLsblkDevices(data []byte) []report.BlockDevice {
	var doc lsblkDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	devices := []report.BlockDevice{}
	for _, entry := range doc.Blockdevices {
		if entry.Type != "disk" {
			continue
		}

		size, _ := entry.Size.Int64()
		dev := report.BlockDevice{
			Path:       entry.Path,
			SizeBytes:  uint64(size),
			Rotational: entry.Rota.String() == "1" || entry.Rota.String() == "true",
		}
		if dev.Path == "" {
			dev.Path = "/dev/" + entry.Name
		}
		if entry.Model != nil {
			dev.Model = strings.TrimSpace(*entry.Model)
		}
		if entry.Serial != nil {
			dev.Serial = strings.TrimSpace(*entry.Serial)
		}
		if entry.WWN != nil {
			dev.WWN = strings.TrimSpace(*entry.WWN)
		}
		if entry.Tran != nil {
			dev.Transport = *entry.Tran
		}
		if entry.HCTL != nil {
			dev.HCTL = strings.TrimSpace(*entry.HCTL)
		}
		dev.DiskType = diskType(dev.Transport, dev.Rotational)

		devices = append(devices, dev)
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })
	return devices
}

// diskType derives the disk class from transport and rotational flag.
func diskType(transport string, rotational bool) string {
	if strings.EqualFold(transport, "nvme") {
		return "NVMe"
	}
	if rotational {
		return "HDD"
	}
	return "SSD"
}
