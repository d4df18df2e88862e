package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// PublishJob is the payload carried on the post-publish topic.
type PublishJob struct {
	PostID int `json:"post_id"`
}

// InMemoryQueue dispatches payloads to subscribed handlers with bounded
// retry. Default when no broker is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	log      zerolog.Logger
}

func NewInMemoryQueue(log zerolog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
		log:      log,
	}
}

type job struct {
	payload    any
	retryCount int
	maxRetries int
}

// Publish sends a payload to all subscribers of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.processJob(handler, job{payload: payload, maxRetries: 3})
	}
	return nil
}

// processJob retries a failing handler with linear backoff, then gives up.
func (q *InMemoryQueue) processJob(handler func(payload any) error, j job) {
	for j.retryCount <= j.maxRetries {
		err := handler(j.payload)
		if err == nil {
			return
		}

		j.retryCount++
		q.log.Warn().
			Int("attempt", j.retryCount).
			Int("max_retries", j.maxRetries).
			Err(err).
			Msg("queue job failed")

		if j.retryCount > j.maxRetries {
			q.log.Error().Interface("payload", j.payload).Msg("queue job permanently failed")
			return
		}
		time.Sleep(time.Duration(j.retryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)

// StartPublishSubscriber consumes queued publish jobs and hands each post to
// the automation service. Redelivered jobs for already-posted posts come back
// as skipped outcomes, so at-most-once publication holds on this path too.
func StartPublishSubscriber(q Queue, topic string, automation *service.AutomationService, log zerolog.Logger) error {
	return q.Subscribe(topic, func(payload any) error {
		var pj PublishJob
		switch v := payload.(type) {
		case PublishJob:
			pj = v
		case []byte:
			if err := json.Unmarshal(v, &pj); err != nil {
				log.Warn().Err(err).Msg("dropping malformed publish job")
				return nil
			}
		default:
			log.Warn().Interface("payload", payload).Msg("dropping publish job with unexpected payload type")
			return nil
		}

		outcome, err := automation.PublishOne(pj.PostID)
		if err != nil {
			var notFound *appErrors.ErrPostNotFound
			if errors.As(err, &notFound) {
				log.Warn().Int("post_id", pj.PostID).Msg("publish job for unknown post, dropping")
				return nil
			}
			return err // publish or storage failure, let the queue retry
		}

		log.Info().
			Int("post_id", outcome.PostID).
			Str("status", outcome.Status).
			Msg("publish job processed")
		return nil
	})
}
