// internal/model/campaign.go
package model

import "time"

// Campaign is a named batch of scheduled posts sharing a persona/audience
// framing. Campaigns are immutable after creation.
type Campaign struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Persona   string    `db:"persona" json:"persona"`
	Audience  string    `db:"audience" json:"audience"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
