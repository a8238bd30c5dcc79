package api

import (
	"context"
	"net/http"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/entities"
)

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Reports career database reachability and whether IL-2 is running.
// @Tags Misc
// @Success 200 {object} entities.HealthReport
// @Failure 503 {object} entities.HealthReport
// @Router /healthCheck [get]
func HealthCheckHandler(db Pinger, probe common.ProcessProbe, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := entities.HealthReport{
			Status:      string(constants.APIStatusOk),
			HostRunning: probe.IsRunning(r.Context()),
			Components:  make(map[string]entities.ComponentStatus, 2),
			UpSince:     upSince,
			Uptime:      time.Since(upSince).Round(time.Second).String(),
		}

		report.Components["career_db"] = entities.ComponentStatus{Status: "ok", Details: "Career database reachable"}
		if err := db.Ping(r.Context()); err != nil {
			report.Status = "down"
			report.Components["career_db"] = entities.ComponentStatus{Status: "down", Details: err.Error()}
		}

		// The game being closed is normal between sessions
		hostDetails := "IL-2 not running"
		if report.HostRunning {
			hostDetails = "IL-2 running"
		}
		report.Components["host"] = entities.ComponentStatus{Status: "ok", Details: hostDetails}

		code := http.StatusOK
		if report.Status != string(constants.APIStatusOk) {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, report)
	}
}
