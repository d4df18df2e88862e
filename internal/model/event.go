// internal/model/event.go
package model

import "time"

// Recognized engagement event kinds.
const (
	EventImpression = "impression"
	EventLike       = "like"
	EventReply      = "reply"
	EventRepost     = "repost"
	EventFollow     = "follow"
)

// EventTypes lists the recognized kinds in a stable order.
var EventTypes = []string{EventImpression, EventLike, EventReply, EventRepost, EventFollow}

// ValidEventType reports whether t is one of the recognized kinds.
func ValidEventType(t string) bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event is an observed engagement signal attributed to a post. Events are
// append-only; multiple events of the same kind against the same post are
// additive, never deduplicated.
type Event struct {
	ID         int       `db:"id" json:"id"`
	PostID     int       `db:"post_id" json:"post_id"`
	EventType  string    `db:"event_type" json:"event_type"`
	Value      int       `db:"value" json:"value"`
	ObservedAt time.Time `db:"observed_at" json:"observed_at"`
}
