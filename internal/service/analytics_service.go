// internal/service/analytics_service.go
package service

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
)

// AnalyticsService ingests engagement events and aggregates them into
// summary metrics.
type AnalyticsService struct {
	EventRepo     repository.EventRepositoryInterface
	AnalyticsRepo repository.AnalyticsRepositoryInterface
	Log           zerolog.Logger
	Now           func() time.Time
}

type IngestEventParams struct {
	PostID    int
	EventType string
	Value     int
}

type AnalyticsSummary struct {
	PostsTotal      int            `json:"posts_total"`
	PostsPublished  int            `json:"posts_published"`
	FollowersGained int            `json:"followers_gained"`
	EngagementRate  float64        `json:"engagement_rate"`
	Totals          map[string]int `json:"totals"`
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// IngestEvent appends one engagement event. Referential integrity against
// posts is advisory: no existence check, events may race post creation in
// distributed deployments.
func (s *AnalyticsService) IngestEvent(params IngestEventParams) (*model.Event, error) {
	var invalid []string
	if params.PostID <= 0 {
		invalid = append(invalid, "post_id")
	}
	if !model.ValidEventType(params.EventType) {
		invalid = append(invalid, "event_type")
	}
	if params.Value < 0 {
		invalid = append(invalid, "value")
	}
	if len(invalid) > 0 {
		return nil, &appErrors.ValidationError{Fields: invalid}
	}

	event := &model.Event{
		PostID:     params.PostID,
		EventType:  params.EventType,
		Value:      params.Value,
		ObservedAt: s.now(),
	}
	if err := s.EventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Summarize computes the engagement summary from a single consistent
// snapshot. The engagement rate is defined as exactly 0 when there are no
// impressions; callers must not read that as "no engagement".
func (s *AnalyticsService) Summarize() (*AnalyticsSummary, error) {
	snap, err := s.AnalyticsRepo.Snapshot()
	if err != nil {
		return nil, err
	}

	impressions := snap.Totals[model.EventImpression]
	engagement := snap.Totals[model.EventLike] + snap.Totals[model.EventReply] + snap.Totals[model.EventRepost]

	rate := 0.0
	if impressions > 0 {
		rate = round4(float64(engagement) / float64(impressions))
	}

	return &AnalyticsSummary{
		PostsTotal:      snap.PostsTotal,
		PostsPublished:  snap.PostsPublished,
		FollowersGained: snap.Totals[model.EventFollow],
		EngagementRate:  rate,
		Totals:          snap.Totals,
	}, nil
}

// round4 rounds to 4 decimal digits for presentation; the unrounded value is
// not retained.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
