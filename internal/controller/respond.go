// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
)

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses: validation -> 400,
// not found -> 404, publish failure -> 502, everything else (storage
// included) -> 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation  *appErrors.ValidationError
		campaignNF  *appErrors.ErrCampaignNotFound
		postNF      *appErrors.ErrPostNotFound
		publishFail *appErrors.PublishError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &campaignNF), errors.As(err, &postNF):
		status = http.StatusNotFound
	case errors.As(err, &publishFail):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
