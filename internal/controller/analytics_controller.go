// internal/controller/analytics_controller.go
package controller

import (
	"net/http"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

type AnalyticsController struct {
	Analytics *service.AnalyticsService
}

type ingestEventRequest struct {
	PostID    *int    `json:"post_id"`
	EventType *string `json:"event_type"`
	Value     *int    `json:"value"`
}

func (c *AnalyticsController) IngestEvent(w http.ResponseWriter, r *http.Request) {
	var body ingestEventRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body: " + err.Error()})
		return
	}

	var missing []string
	if body.PostID == nil {
		missing = append(missing, "post_id")
	}
	if body.EventType == nil {
		missing = append(missing, "event_type")
	}
	if body.Value == nil {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		writeError(w, &appErrors.ValidationError{Fields: missing})
		return
	}

	_, err := c.Analytics.IngestEvent(service.IngestEventParams{
		PostID:    *body.PostID,
		EventType: *body.EventType,
		Value:     *body.Value,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (c *AnalyticsController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Analytics.Summarize()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
