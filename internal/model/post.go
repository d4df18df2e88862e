// internal/model/post.go
package model

import "time"

// Post status values. Transitions only move forward: scheduled -> posted.
const (
	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
)

// MaxPostLength is the hard cap on composed post text, counted in runes.
// Text longer than this is silently truncated at creation time.
const MaxPostLength = 280

// Post is a single unit of content with a scheduled publish time.
// Invariant: Status == posted iff both PostedAt and ExternalID are set.
type Post struct {
	ID         int        `db:"id" json:"id"`
	CampaignID int        `db:"campaign_id" json:"campaign_id"`
	Text       string     `db:"text" json:"text"`
	PublishAt  time.Time  `db:"publish_at" json:"publish_at"`
	Status     string     `db:"status" json:"status"`
	ExternalID *string    `db:"external_id" json:"external_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	PostedAt   *time.Time `db:"posted_at" json:"posted_at,omitempty"`
}

// PostDraft is the preview returned to the caller after scheduling,
// before the automation run acts on anything.
type PostDraft struct {
	Text         string    `json:"text"`
	PublishAt    time.Time `json:"publish_at"`
	CampaignName string    `json:"campaign_name"`
}
