package queue_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
	"github.com/growthlabs/xgrowth-backend/internal/publisher"
	"github.com/growthlabs/xgrowth-backend/internal/queue"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

func TestInMemoryQueueDeliversPayload(t *testing.T) {
	q := queue.NewInMemoryQueue(zerolog.Nop())

	received := make(chan any, 1)
	require.NoError(t, q.Subscribe("jobs", func(payload any) error {
		received <- payload
		return nil
	}))

	require.NoError(t, q.Publish("jobs", queue.PublishJob{PostID: 7}))

	select {
	case payload := <-received:
		assert.Equal(t, queue.PublishJob{PostID: 7}, payload)
	case <-time.After(2 * time.Second):
		t.Fatal("payload never delivered")
	}
}

func TestInMemoryQueueNoSubscribers(t *testing.T) {
	q := queue.NewInMemoryQueue(zerolog.Nop())
	err := q.Publish("nobody-home", 1)
	assert.Error(t, err)
}

func TestInMemoryQueueRetriesFailedHandler(t *testing.T) {
	q := queue.NewInMemoryQueue(zerolog.Nop())

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	require.NoError(t, q.Subscribe("jobs", func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}))

	require.NoError(t, q.Publish("jobs", 1))

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("handler never succeeded")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

// stubPostRepo backs the subscriber test with a single scheduled post.
type stubPostRepo struct {
	mu   sync.Mutex
	post *model.Post
}

func (r *stubPostRepo) GetByID(id int) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.post == nil || r.post.ID != id {
		return nil, appErrors.NewPostNotFound(id)
	}
	cp := *r.post
	return &cp, nil
}

func (r *stubPostRepo) ListDue(now time.Time) ([]*model.Post, error) { return nil, nil }
func (r *stubPostRepo) ListAll() ([]*model.Post, error)              { return nil, nil }

func (r *stubPostRepo) MarkPosted(id int, externalID string, postedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.post == nil || r.post.ID != id || r.post.Status != model.PostStatusScheduled {
		return false, nil
	}
	r.post.Status = model.PostStatusPosted
	r.post.ExternalID = &externalID
	r.post.PostedAt = &postedAt
	return true, nil
}

func (r *stubPostRepo) status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.post.Status
}

func TestPublishSubscriberPublishesQueuedPost(t *testing.T) {
	repo := &stubPostRepo{post: &model.Post{
		ID:        1,
		Text:      "queued post",
		PublishAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    model.PostStatusScheduled,
	}}
	automation := &service.AutomationService{
		PostRepo: repo,
		Client:   publisher.NewDryRunClient(),
		Log:      zerolog.Nop(),
	}

	q := queue.NewInMemoryQueue(zerolog.Nop())
	require.NoError(t, queue.StartPublishSubscriber(q, "post_publishes", automation, zerolog.Nop()))

	require.NoError(t, q.Publish("post_publishes", queue.PublishJob{PostID: 1}))

	assert.Eventually(t, func() bool {
		return repo.status() == model.PostStatusPosted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublishSubscriberDecodesRawBodies(t *testing.T) {
	repo := &stubPostRepo{post: &model.Post{
		ID:     2,
		Text:   "raw body post",
		Status: model.PostStatusScheduled,
	}}
	automation := &service.AutomationService{
		PostRepo: repo,
		Client:   publisher.NewDryRunClient(),
		Log:      zerolog.Nop(),
	}

	q := queue.NewInMemoryQueue(zerolog.Nop())
	require.NoError(t, queue.StartPublishSubscriber(q, "post_publishes", automation, zerolog.Nop()))

	// The AMQP path delivers raw JSON bodies.
	body, err := json.Marshal(queue.PublishJob{PostID: 2})
	require.NoError(t, err)
	require.NoError(t, q.Publish("post_publishes", body))

	assert.Eventually(t, func() bool {
		return repo.status() == model.PostStatusPosted
	}, 2*time.Second, 10*time.Millisecond)
}
