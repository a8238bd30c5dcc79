package entities

import "time"

// ComponentStatus is one line of the health report.
type ComponentStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthReport is served on /healthCheck. Only the career database can mark
// the daemon down; the game being closed is reported through HostRunning.
type HealthReport struct {
	Status      string                     `json:"status"`
	HostRunning bool                       `json:"host_running"`
	Components  map[string]ComponentStatus `json:"components"`
	UpSince     time.Time                  `json:"up_since"`
	Uptime      string                     `json:"uptime"`
}
