// internal/controller/automation_controller.go
package controller

import (
	"net/http"

	"github.com/growthlabs/xgrowth-backend/internal/queue"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

type AutomationController struct {
	Automation   *service.AutomationService
	Queue        queue.Queue
	PublishTopic string
}

// RunAutomation publishes every due post synchronously and reports the
// per-post outcomes.
func (c *AutomationController) RunAutomation(w http.ResponseWriter, r *http.Request) {
	result, err := c.Automation.RunDue(c.Automation.NowUTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// EnqueueAutomation hands due post IDs to the queue for deferred publication
// by the worker instead of publishing inline.
func (c *AutomationController) EnqueueAutomation(w http.ResponseWriter, r *http.Request) {
	ids, err := c.Automation.EnqueueDue(c.Automation.NowUTC())
	if err != nil {
		writeError(w, err)
		return
	}

	queued := make([]int, 0, len(ids))
	for _, id := range ids {
		if err := c.Queue.Publish(c.PublishTopic, queue.PublishJob{PostID: id}); err != nil {
			writeError(w, err)
			return
		}
		queued = append(queued, id)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"queued_count": len(queued),
		"post_ids":     queued,
	})
}
