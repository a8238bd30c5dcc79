package common

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"il2-rankmod/light/internal/logging"
)

// ProcessProbe reports whether the host game is currently running.
type ProcessProbe interface {
	IsRunning(ctx context.Context) bool
}

// ProcessNameProbe matches running processes by executable name, ignoring case.
type ProcessNameProbe struct {
	name string
}

var _ ProcessProbe = (*ProcessNameProbe)(nil)

func NewProcessNameProbe(name string) *ProcessNameProbe {
	return &ProcessNameProbe{name: name}
}

func (p *ProcessNameProbe) IsRunning(ctx context.Context) bool {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		logging.Warn("[ProcessProbe] Failed to list processes", "error", err.Error())
		return false
	}

	for _, proc := range procs {
		// Processes can exit between listing and inspection
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if strings.EqualFold(name, p.name) {
			return true
		}
	}
	return false
}
