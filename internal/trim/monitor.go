// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package trim

import (
	"sync"

	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// usageMonitor 使用 gopsutil 采集子进程 CPU 和内存
type usageMonitor struct {
	mu   sync.RWMutex
	proc *gopsutilprocess.Process
}

func (m *usageMonitor) Start(pid int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	proc, err := gopsutilprocess.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	m.proc = proc
	return nil
}

func (m *usageMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proc = nil
}

func (m *usageMonitor) Current() (cpu float64, memory uint64) {
	m.mu.RLock()
	proc := m.proc
	m.mu.RUnlock()
	if proc == nil {
		return 0, 0
	}
	if cpuPct, err := proc.CPUPercent(); err == nil {
		cpu = cpuPct
	}
	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
		memory = memInfo.RSS
	}
	return cpu, memory
}
