// internal/controller/campaign_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

type CampaignController struct {
	Scheduler  *service.SchedulerService
	Automation *service.AutomationService
}

// createCampaignRequest uses pointer fields so an absent JSON key is
// distinguishable from a zero value and missing fields can be named exactly.
type createCampaignRequest struct {
	Name           *string   `json:"name"`
	Persona        *string   `json:"persona"`
	Audience       *string   `json:"audience"`
	Hooks          *[]string `json:"hooks"`
	Hashtags       *[]string `json:"hashtags"`
	StartAt        *string   `json:"start_at"`
	CadenceMinutes *int      `json:"cadence_minutes"`
}

func (r *createCampaignRequest) missingFields() []string {
	var missing []string
	if r.Name == nil {
		missing = append(missing, "name")
	}
	if r.Persona == nil {
		missing = append(missing, "persona")
	}
	if r.Audience == nil {
		missing = append(missing, "audience")
	}
	if r.Hooks == nil {
		missing = append(missing, "hooks")
	}
	if r.Hashtags == nil {
		missing = append(missing, "hashtags")
	}
	if r.StartAt == nil {
		missing = append(missing, "start_at")
	}
	if r.CadenceMinutes == nil {
		missing = append(missing, "cadence_minutes")
	}
	return missing
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body: " + err.Error()})
		return
	}
	if missing := body.missingFields(); len(missing) > 0 {
		writeError(w, &appErrors.ValidationError{Fields: missing})
		return
	}

	result, err := c.Scheduler.ScheduleCampaign(service.ScheduleCampaignParams{
		Name:           *body.Name,
		Persona:        *body.Persona,
		Audience:       *body.Audience,
		Hooks:          *body.Hooks,
		Hashtags:       *body.Hashtags,
		StartAt:        *body.StartAt,
		CadenceMinutes: *body.CadenceMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"campaign_id":     result.CampaignID,
		"scheduled_posts": result.ScheduledPosts,
		"posts":           result.Posts,
		"note":            "Use /automation/run to publish due posts. Keep content compliant with platform policies.",
	})
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	campaigns, pagination, err := c.Scheduler.ListCampaigns(page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaignDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid campaign id"})
		return
	}

	details, err := c.Scheduler.GetCampaignDetails(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (c *CampaignController) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.Automation.ListPosts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
