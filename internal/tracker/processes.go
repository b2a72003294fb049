package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// ProcessInfo is a snapshot of one running process.
type ProcessInfo struct {
	PID        int32     `json:"pid"`
	Name       string    `json:"name"`
	Exe        string    `json:"exe,omitempty"`
	CPUPercent float64   `json:"cpu_percent"`
	MemoryRSS  uint64    `json:"memory_rss"`
	CreateTime time.Time `json:"create_time"`
}

// ProcessName resolves pid to its process name.
func ProcessName(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

// ListProcesses returns all running processes sorted by CPU usage
// descending, then PID. Fields that cannot be read (permissions, processes
// exiting mid-scan) are left zero.
func ListProcesses(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, rcerrors.ProcessListFailed(err)
	}

	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		info := ProcessInfo{PID: p.Pid}
		if name, err := p.NameWithContext(ctx); err == nil {
			info.Name = name
		} else {
			// Gone before we could read it.
			continue
		}
		if exe, err := p.ExeWithContext(ctx); err == nil {
			info.Exe = exe
		}
		if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = cpu
		}
		if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			info.MemoryRSS = mem.RSS
		}
		if ms, err := p.CreateTimeWithContext(ctx); err == nil {
			info.CreateTime = time.UnixMilli(ms)
		}
		out = append(out, info)
	}

	SortProcesses(out)
	return out, nil
}

// SortProcesses orders processes by CPU descending, then PID ascending.
func SortProcesses(procs []ProcessInfo) {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].CPUPercent != procs[j].CPUPercent {
			return procs[i].CPUPercent > procs[j].CPUPercent
		}
		return procs[i].PID < procs[j].PID
	})
}
