package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"il2-rankmod/light/internal/app"
	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/config"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/models/dtos/responses"
	"il2-rankmod/light/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notRunning struct{}

func (notRunning) IsRunning(ctx context.Context) bool { return false }

type alwaysHits struct{}

func (alwaysHits) Float64() float64 { return 0 }

func newTestServer(t *testing.T) (http.Handler, *app.Dependencies) {
	t.Helper()
	cdb := testutil.NewCareerDB(t)

	testutil.InsertSquadron(t, cdb, 10, testutil.Int64(101004), testutil.Int64(3))
	testutil.InsertPilot(t, cdb, testutil.Pilot{ID: 1, PersonageID: "p", SquadronID: 10, Name: "Player", LastName: "One", RankID: 4, PCP: 250})
	testutil.InsertPilot(t, cdb, testutil.Pilot{ID: 2, SquadronID: 10, Name: "Wing", LastName: "Man", RankID: 4, PCP: 250})
	testutil.Exec(t, cdb, `INSERT INTO personage (id, maxRank) VALUES (1, 7)`)

	cfg := config.Default("/games/il2")
	cfg.AdminSecret = "s3cret"

	reg := prometheus.NewRegistry()
	deps := app.InitDependencies(cfg, cdb, metrics.NewMetricsRegistry(reg), notRunning{}, alwaysHits{})
	require.NoError(t, deps.InitCareer(context.Background()))

	return RegisterRoutes(deps, reg, time.Now()), deps
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:40000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestStatusServer(t *testing.T) {
	h, deps := newTestServer(t)

	assert.Equal(t, 1, testutil.Count(t, deps.DB, `SELECT COUNT(*) FROM personage WHERE maxRank = 13`))

	rr := do(h, http.MethodGet, "/healthCheck", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = do(h, http.MethodPost, "/api/v1/admin/jobs/pass", "", `{"squadron_id": 10, "date": "1942-11-19"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.NewAdminTokenService("s3cret").Issue("ops", "admin", time.Hour)
	require.NoError(t, err)

	rr = do(h, http.MethodPost, "/api/v1/admin/jobs/pass", token, `{"squadron_id": 10, "date": "1942-11-19"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var pass responses.StatusEnvelope[responses.PassSummaryResponse]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&pass))
	assert.Equal(t, rr.Header().Get("X-Request-ID"), pass.RequestID)
	assert.NotEmpty(t, pass.RequestID)
	assert.Equal(t, 2, pass.Data.Promoted)
	assert.Equal(t, 2, pass.Data.Events)
	assert.Equal(t, 5, testutil.RankOf(t, deps.DB, 1))
	assert.Equal(t, 5, testutil.RankOf(t, deps.DB, 2))

	rr = do(h, http.MethodGet, "/api/v1/pilots/1/promotion", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var attempt responses.StatusEnvelope[responses.AttemptResponse]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&attempt))
	assert.True(t, attempt.Data.HasAttempt)
	assert.True(t, attempt.Data.LastSuccess)

	rr = do(h, http.MethodGet, "/api/v1/promotions?limit=10", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list responses.StatusEnvelope[responses.PromotionListResponse]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	assert.Len(t, list.Data.Events, 2)

	rr = do(h, http.MethodPost, "/api/v1/admin/jobs/cleanup", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rankmod_promotion_passes_total 1")
	assert.Contains(t, rr.Body.String(), `rankmod_promotion_decisions_total{outcome="promoted"} 2`)
}
