package diag

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostSnapshot is a point-in-time read of the host's resource state,
// surfaced over the /status endpoint so a sync running over USB can be
// correlated with host load.
type HostSnapshot struct {
	HostID      string  `json:"host_id"`
	Uptime      uint64  `json:"uptime_seconds"`
	CPUPercent  float64 `json:"cpu_percent"`
	MemUsedPct  float64 `json:"mem_used_percent"`
	MemUsedMB   uint64  `json:"mem_used_mb"`
}

// Snapshot reads CPU, memory, and host identity in one pass.
func Snapshot() (HostSnapshot, error) {
	info, err := host.Info()
	if err != nil {
		return HostSnapshot{}, err
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		return HostSnapshot{}, err
	}
	var cpuPct float64
	if len(percents) > 0 {
		cpuPct = percents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return HostSnapshot{}, err
	}

	return HostSnapshot{
		HostID:     info.HostID,
		Uptime:     info.Uptime,
		CPUPercent: cpuPct,
		MemUsedPct: vm.UsedPercent,
		MemUsedMB:  vm.Used / (1024 * 1024),
	}, nil
}
