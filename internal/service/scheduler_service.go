// internal/service/scheduler_service.go
package service

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
)

// SchedulerService expands a campaign definition into concrete scheduled
// posts. It never publishes anything; the automation service acts later.
type SchedulerService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Log          zerolog.Logger
	Now          func() time.Time
}

// ScheduleCampaignParams is the validated input for ScheduleCampaign.
// Hashtags may be empty but must be supplied; a nil slice means the field
// was absent from the request.
type ScheduleCampaignParams struct {
	Name           string
	Persona        string
	Audience       string
	Hooks          []string
	Hashtags       []string
	StartAt        string // RFC3339
	CadenceMinutes int
}

type ScheduleCampaignResult struct {
	CampaignID     int               `json:"campaign_id"`
	ScheduledPosts int               `json:"scheduled_posts"`
	Posts          []model.PostDraft `json:"posts"`
}

func (s *SchedulerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ScheduleCampaign validates params, composes one post per hook at
// start + i*cadence minutes, and persists the campaign with all its posts
// in a single transaction. Returns the drafts for client-side review.
func (s *SchedulerService) ScheduleCampaign(params ScheduleCampaignParams) (*ScheduleCampaignResult, error) {
	var invalid []string
	if strings.TrimSpace(params.Name) == "" {
		invalid = append(invalid, "name")
	}
	if strings.TrimSpace(params.Persona) == "" {
		invalid = append(invalid, "persona")
	}
	if strings.TrimSpace(params.Audience) == "" {
		invalid = append(invalid, "audience")
	}
	if len(params.Hooks) == 0 {
		invalid = append(invalid, "hooks")
	}
	if params.Hashtags == nil {
		invalid = append(invalid, "hashtags")
	}
	if params.CadenceMinutes <= 0 {
		invalid = append(invalid, "cadence_minutes")
	}
	start, err := time.Parse(time.RFC3339, params.StartAt)
	if err != nil {
		invalid = append(invalid, "start_at")
	}
	if len(invalid) > 0 {
		return nil, &appErrors.ValidationError{Fields: invalid}
	}

	campaign := &model.Campaign{
		Name:      params.Name,
		Persona:   params.Persona,
		Audience:  params.Audience,
		CreatedAt: s.now(),
	}

	posts := make([]*model.Post, 0, len(params.Hooks))
	for i, hook := range params.Hooks {
		posts = append(posts, &model.Post{
			Text:      ComposePostText(hook, params.Persona, params.Audience, params.Hashtags),
			PublishAt: start.Add(time.Duration(i*params.CadenceMinutes) * time.Minute),
			Status:    model.PostStatusScheduled,
		})
	}

	if err := s.CampaignRepo.CreateWithPosts(campaign, posts); err != nil {
		return nil, err
	}

	drafts := make([]model.PostDraft, 0, len(posts))
	for _, p := range posts {
		drafts = append(drafts, model.PostDraft{
			Text:         p.Text,
			PublishAt:    p.PublishAt,
			CampaignName: campaign.Name,
		})
	}

	s.Log.Info().
		Int("campaign_id", campaign.ID).
		Int("scheduled_posts", len(posts)).
		Msg("campaign scheduled")

	return &ScheduleCampaignResult{
		CampaignID:     campaign.ID,
		ScheduledPosts: len(drafts),
		Posts:          drafts,
	}, nil
}

// ComposePostText assembles the final post text: the hook, a persona/audience
// framing line, and the normalized hashtag line, truncated to the maximum
// post length. Truncation is silent, never an error.
func ComposePostText(hook, persona, audience string, hashtags []string) string {
	text := hook + "\n\n" + persona + " insight for " + audience + ".\n\n" + HashtagLine(hashtags)
	return truncateRunes(strings.TrimSpace(text), model.MaxPostLength)
}

// HashtagLine prefixes each tag with a single '#', stripping any '#' the
// caller already supplied. Order is preserved and duplicates are kept.
func HashtagLine(hashtags []string) string {
	tags := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		tags = append(tags, "#"+strings.Trim(h, "#"))
	}
	return strings.Join(tags, " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

type CampaignDetails struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Persona   string         `json:"persona"`
	Audience  string         `json:"audience"`
	CreatedAt time.Time      `json:"created_at"`
	Stats     map[string]int `json:"stats"`
}

// ListCampaigns fetches campaigns with pagination.
func (s *SchedulerService) ListCampaigns(page, pageSize int) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return campaigns, pagination, nil
}

// GetCampaignDetails fetches a campaign with its per-status post counts.
func (s *SchedulerService) GetCampaignDetails(id int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	stats, err := s.CampaignRepo.GetCampaignStats(id)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range stats {
		total += count
	}
	stats["total"] = total

	return &CampaignDetails{
		ID:        campaign.ID,
		Name:      campaign.Name,
		Persona:   campaign.Persona,
		Audience:  campaign.Audience,
		CreatedAt: campaign.CreatedAt,
		Stats:     stats,
	}, nil
}
