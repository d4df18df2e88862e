package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthlabs/xgrowth-backend/internal/controller"
	"github.com/growthlabs/xgrowth-backend/internal/model"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

type mockEventRepo struct {
	events []*model.Event
}

func (m *mockEventRepo) Create(e *model.Event) error {
	e.ID = len(m.events) + 1
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventRepo) Snapshot() (*repository.AnalyticsSnapshot, error) {
	snap := &repository.AnalyticsSnapshot{Totals: map[string]int{}}
	for _, e := range m.events {
		snap.Totals[e.EventType] += e.Value
	}
	return snap, nil
}

var (
	_ repository.EventRepositoryInterface     = (*mockEventRepo)(nil)
	_ repository.AnalyticsRepositoryInterface = (*mockEventRepo)(nil)
)

func newAnalyticsController(repo *mockEventRepo) *controller.AnalyticsController {
	return &controller.AnalyticsController{
		Analytics: &service.AnalyticsService{
			EventRepo:     repo,
			AnalyticsRepo: repo,
			Log:           zerolog.Nop(),
		},
	}
}

func TestIngestEventEndpoint(t *testing.T) {
	repo := &mockEventRepo{}
	ctrl := newAnalyticsController(repo)

	body, _ := json.Marshal(map[string]any{"post_id": 1, "event_type": "impression", "value": 100})
	req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.IngestEvent(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	var res map[string]string
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&res))
	assert.Equal(t, "recorded", res["status"])
	require.Len(t, repo.events, 1)
	assert.Equal(t, 100, repo.events[0].Value)
}

func TestIngestEventRejectsUnknownKind(t *testing.T) {
	ctrl := newAnalyticsController(&mockEventRepo{})

	body, _ := json.Marshal(map[string]any{"post_id": 1, "event_type": "view", "value": 3})
	req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.IngestEvent(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	var res map[string]string
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&res))
	assert.Contains(t, res["error"], "event_type")
}

func TestIngestEventMissingFields(t *testing.T) {
	ctrl := newAnalyticsController(&mockEventRepo{})

	body, _ := json.Marshal(map[string]any{"post_id": 1})
	req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.IngestEvent(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	var res map[string]string
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&res))
	assert.Contains(t, res["error"], "event_type")
	assert.Contains(t, res["error"], "value")
}

func TestSummaryEndpoint(t *testing.T) {
	repo := &mockEventRepo{}
	ctrl := newAnalyticsController(repo)

	for _, e := range []model.Event{
		{PostID: 1, EventType: model.EventImpression, Value: 100},
		{PostID: 1, EventType: model.EventLike, Value: 10},
	} {
		ev := e
		require.NoError(t, repo.Create(&ev))
	}

	req := httptest.NewRequest("GET", "/analytics/summary", nil)
	w := httptest.NewRecorder()

	ctrl.Summary(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	var res service.AnalyticsSummary
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&res))
	assert.Equal(t, 0.1, res.EngagementRate)
	assert.Equal(t, 100, res.Totals[model.EventImpression])
}
