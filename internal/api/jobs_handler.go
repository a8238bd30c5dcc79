package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/jobs"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/models/dtos/requests"
	"il2-rankmod/light/internal/models/dtos/responses"
)

type PassRunner interface {
	Run(ctx context.Context, squadronID int64, missionDate string) (jobs.PassSummary, error)
}

type CleanupRunner interface {
	Run(ctx context.Context) (int64, error)
}

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	pass    PassRunner
	cleanup CleanupRunner
}

func NewJobsHandler(pass PassRunner, cleanup CleanupRunner) *JobsHandler {
	return &JobsHandler{pass: pass, cleanup: cleanup}
}

// TriggerCleanup manually runs the orphan cleanup job
// @Summary Trigger orphan cleanup
// @Tags admin,jobs
// @Produce json
// @Success 200 {object} responses.CleanupResponse
// @Failure 401 {object} responses.StatusEnvelope[any]
// @Router /api/v1/admin/jobs/cleanup [post]
func (h *JobsHandler) TriggerCleanup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logging.Info("[JobsHandler] Orphan cleanup manually triggered", "by", triggeredBy(r))

		deleted, err := h.cleanup.Run(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, r, http.StatusOK, &responses.CleanupResponse{Deleted: deleted})
	}
}

// TriggerPass manually runs a promotion pass
// @Summary Trigger promotion pass
// @Tags admin,jobs
// @Accept json
// @Produce json
// @Param body body requests.PassRequest true "Squadron and mission date"
// @Success 200 {object} responses.PassSummaryResponse
// @Failure 400 {object} responses.StatusEnvelope[any]
// @Failure 401 {object} responses.StatusEnvelope[any]
// @Router /api/v1/admin/jobs/pass [post]
func (h *JobsHandler) TriggerPass() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.PassRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.SquadronID == nil || req.Date == "" {
			writeError(w, r, http.StatusBadRequest, constants.MsgInvalidPassParams)
			return
		}

		logging.Info("[JobsHandler] Promotion pass manually triggered",
			"by", triggeredBy(r), "squadron_id", *req.SquadronID, "date", req.Date)

		summary, err := h.pass.Run(r.Context(), *req.SquadronID, req.Date)
		if err != nil {
			var fe *common.FormatError
			if errors.As(err, &fe) {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		resp := responses.PassSummaryResponse{
			RunID:       summary.RunID,
			Date:        summary.Date,
			SquadronID:  summary.SquadronID,
			ActivePilot: summary.ActivePilot,
			Migrated:    summary.Migrated,
			Evaluated:   summary.Evaluated,
			Promoted:    summary.Promoted,
			Failed:      summary.Failed,
			Deferred:    summary.Deferred,
			Denied:      summary.Denied,
			Skipped:     summary.Skipped,
			Errors:      summary.Errors,
			Events:      summary.Events,
		}
		writeData(w, r, http.StatusOK, &resp)
	}
}

func triggeredBy(r *http.Request) string {
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		return claims.UserID()
	}
	return ""
}
