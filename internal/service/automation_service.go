// internal/service/automation_service.go
package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
	"github.com/growthlabs/xgrowth-backend/internal/publisher"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
)

// Outcome statuses reported for posts that did not publish. A successful
// outcome carries the publishing client's own status tag instead.
const (
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// AutomationService selects due scheduled posts and publishes them through
// the configured client. The scheduled-only selection predicate plus the
// compare-and-swap status transition guarantee at-most-once publication
// under repeated or concurrent invocation.
type AutomationService struct {
	PostRepo repository.PostRepositoryInterface
	Client   publisher.Client
	Log      zerolog.Logger
	Now      func() time.Time
}

// PublishOutcome is the per-post result of an automation run.
type PublishOutcome struct {
	PostID     int    `json:"post_id"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type RunResult struct {
	PublishedCount int              `json:"published_count"`
	Published      []PublishOutcome `json:"published"`
}

func (s *AutomationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// NowUTC exposes the service clock so callers evaluate dueness against the
// same time source the service uses.
func (s *AutomationService) NowUTC() time.Time {
	return s.now()
}

// RunDue publishes every scheduled post whose publish time has passed,
// earliest-due first. Publish failures are isolated per post: the failing
// post stays scheduled for the next run and the batch continues. Storage
// failures abort the run.
func (s *AutomationService) RunDue(now time.Time) (*RunResult, error) {
	due, err := s.PostRepo.ListDue(now)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Published: []PublishOutcome{}}
	for _, post := range due {
		outcome, err := s.publish(post)
		if err != nil {
			var pubErr *appErrors.PublishError
			if !errors.As(err, &pubErr) {
				return nil, err
			}
			s.Log.Warn().Int("post_id", post.ID).Err(err).Msg("publish failed, post stays scheduled")
		}
		if outcome.Status != OutcomeFailed && outcome.Status != OutcomeSkipped {
			result.PublishedCount++
		}
		result.Published = append(result.Published, *outcome)
	}

	s.Log.Info().
		Int("due", len(due)).
		Int("published", result.PublishedCount).
		Msg("automation run complete")
	return result, nil
}

// ListPosts returns every post ordered by scheduled publish time ascending.
func (s *AutomationService) ListPosts() ([]*model.Post, error) {
	return s.PostRepo.ListAll()
}

// EnqueueDue lists due post IDs without publishing them; the queue worker
// does the actual publication.
func (s *AutomationService) EnqueueDue(now time.Time) ([]int, error) {
	due, err := s.PostRepo.ListDue(now)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(due))
	for _, p := range due {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// PublishOne claims and publishes a single post by ID, used by the queue
// worker path. Posts no longer in scheduled status are skipped, so redelivery
// of the same job is harmless.
func (s *AutomationService) PublishOne(postID int) (*PublishOutcome, error) {
	post, err := s.PostRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.Status != model.PostStatusScheduled {
		return &PublishOutcome{PostID: post.ID, Status: OutcomeSkipped}, nil
	}
	return s.publish(post)
}

// publish invokes the client and applies the scheduled -> posted transition.
// The external_id and posted_at columns are set in the same statement as the
// status flip, so no reader can observe a posted post without them.
func (s *AutomationService) publish(post *model.Post) (*PublishOutcome, error) {
	receipt, err := s.Client.Publish(post.Text)
	if err != nil {
		pubErr := appErrors.NewPublishError(post.ID, err)
		return &PublishOutcome{
			PostID: post.ID,
			Status: OutcomeFailed,
			Error:  pubErr.Error(),
		}, pubErr
	}

	claimed, err := s.PostRepo.MarkPosted(post.ID, receipt.ExternalID, s.now())
	if err != nil {
		return &PublishOutcome{PostID: post.ID, Status: OutcomeFailed, Error: err.Error()}, err
	}
	if !claimed {
		// Another runner transitioned this post between selection and update.
		return &PublishOutcome{PostID: post.ID, Status: OutcomeSkipped}, nil
	}

	return &PublishOutcome{
		PostID:     post.ID,
		Status:     receipt.Status,
		ExternalID: receipt.ExternalID,
	}, nil
}
