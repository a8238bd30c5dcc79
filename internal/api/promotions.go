package api

import (
	"context"
	"net/http"
	"strconv"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/models/dtos"
	"il2-rankmod/light/internal/models/dtos/responses"
	"il2-rankmod/light/internal/models/entities"
	"il2-rankmod/light/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPromotionLimit = 20
	maxPromotionLimit     = 200
)

type AttemptReader interface {
	Get(ctx context.Context, pilotID int64) (*gorm.PromotionAttempt, error)
}

type PilotReader interface {
	GetByID(ctx context.Context, pilotID int64) (*gorm.Pilot, error)
}

type PromotionLister interface {
	RecentPromotions(ctx context.Context, limit int) ([]entities.PromotionEventRow, error)
}

// FeedReader returns the newest notices from the promotion feed.
type FeedReader interface {
	Recent(ctx context.Context, count int64) ([]dtos.PromotionNotice, error)
}

type PromotionHandlers struct {
	attempts AttemptReader
	pilots   PilotReader
	events   PromotionLister
	feed     FeedReader
}

// NewPromotionHandlers builds the read-only promotion endpoints. feed may be nil.
func NewPromotionHandlers(attempts AttemptReader, pilots PilotReader, events PromotionLister, feed FeedReader) *PromotionHandlers {
	return &PromotionHandlers{attempts: attempts, pilots: pilots, events: events, feed: feed}
}

// GetPilotPromotion handles GET /api/v1/pilots/{id}/promotion
//
// @Summary Promotion attempt state of a pilot
// @Tags Promotions
// @Produce json
// @Param id path int true "Pilot id"
// @Success 200 {object} responses.AttemptResponse
// @Failure 400 {object} responses.StatusEnvelope[any]
// @Failure 404 {object} responses.StatusEnvelope[any]
// @Router /api/v1/pilots/{id}/promotion [get]
func (h *PromotionHandlers) GetPilotPromotion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pilotID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || pilotID <= 0 {
			writeError(w, r, http.StatusBadRequest, constants.MsgInvalidPilotID)
			return
		}

		pilot, err := h.pilots.GetByID(r.Context(), pilotID)
		if err != nil {
			logging.Error("[PromotionHandlers] Failed to load pilot", "pilot_id", pilotID, "error", err)
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		if pilot == nil {
			writeError(w, r, http.StatusNotFound, constants.MsgPilotNotFound)
			return
		}

		attempt, err := h.attempts.Get(r.Context(), pilotID)
		if err != nil {
			logging.Error("[PromotionHandlers] Failed to load attempt", "pilot_id", pilotID, "error", err)
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		resp := responses.AttemptResponse{PilotID: pilotID}
		if attempt != nil {
			resp.HasAttempt = true
			resp.LastAttempt = attempt.LastAttempt
			resp.LastSuccess = attempt.LastSuccess
			resp.FailCount = attempt.FailCount
		}
		writeData(w, r, http.StatusOK, &resp)
	}
}

// ListPromotions handles GET /api/v1/promotions
//
// @Summary Most recent promotion events
// @Tags Promotions
// @Produce json
// @Param limit query int false "Number of events (default 20, max 200)"
// @Success 200 {object} responses.PromotionListResponse
// @Router /api/v1/promotions [get]
func (h *PromotionHandlers) ListPromotions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultPromotionLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxPromotionLimit)
		}

		events, err := h.events.RecentPromotions(r.Context(), limit)
		if err != nil {
			logging.Error("[PromotionHandlers] Failed to list promotions", "error", err)
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		resp := responses.PromotionListResponse{Events: events}
		if h.feed != nil {
			notices, err := h.feed.Recent(r.Context(), int64(limit))
			if err != nil {
				logging.Warn("[PromotionHandlers] Promotion feed unavailable", "error", err)
			} else {
				resp.Feed = notices
			}
		}
		writeData(w, r, http.StatusOK, &resp)
	}
}
