package executor

import (
	"context"
	"runtime"
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/resources"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitor periodically logs real host CPU/memory utilization
// alongside the logical GPU/CPU ledger. It is purely operational: it
// never feeds back into admission decisions, which are made entirely
// by resources.Manager.
type ResourceMonitor struct {
	resources *resources.Manager
	interval  time.Duration
}

// NewResourceMonitor creates a monitor sampling every interval.
func NewResourceMonitor(rm *resources.Manager, interval time.Duration) *ResourceMonitor {
	return &ResourceMonitor{resources: rm, interval: interval}
}

// Run samples resource usage until ctx is cancelled. Intended to run
// in its own goroutine.
func (m *ResourceMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *ResourceMonitor) sample() {
	logger := logging.Log.WithField("go_routines", runtime.NumGoroutine()).
		WithField("available_gpu_bytes", m.resources.AvailableGPU()).
		WithField("available_cpu_bytes", m.resources.AvailableCPU())

	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		logger = logger.WithField("host_cpu_percent", cpuPercent[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		logger = logger.WithField("host_memory_percent", vm.UsedPercent)
	}

	logger.Debug("resource monitor sample")
}
