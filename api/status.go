package api

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

func (api *API) status() StatusData {
	api.mu.RLock()
	status := StatusData{Clients: api.count}
	if api.selected != nil {
		status.Selected = api.selected.ID
	}
	api.mu.RUnlock()

	status.Goroutines = runtime.NumGoroutine()
	status.Uptime = time.Since(api.started).Round(time.Second).String()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return status
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		status.RSSBytes = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		status.CPUPercent = cpu
	}
	return status
}
