package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
)

type EventRepositoryInterface interface {
	Create(e *model.Event) error
}

// EventRepository is append-only; events are never updated or deleted.
type EventRepository struct {
	DB *sql.DB
}

func (r *EventRepository) Create(e *model.Event) error {
	if e.ObservedAt.IsZero() {
		e.ObservedAt = time.Now().UTC()
	}
	err := r.DB.QueryRow(
		`INSERT INTO events (post_id, event_type, value, observed_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		e.PostID, e.EventType, e.Value, e.ObservedAt,
	).Scan(&e.ID)
	if err != nil {
		return appErrors.NewStorageError("insert event", err)
	}
	return nil
}

var _ EventRepositoryInterface = (*EventRepository)(nil)
