package repository

import (
	"context"
	"database/sql"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
)

// AnalyticsSnapshot holds the raw aggregates the analytics engine derives
// its metrics from, all read within one transaction.
type AnalyticsSnapshot struct {
	PostsTotal     int
	PostsPublished int
	Totals         map[string]int
}

type AnalyticsRepositoryInterface interface {
	Snapshot() (*AnalyticsSnapshot, error)
}

type AnalyticsRepository struct {
	DB *sql.DB
}

// Snapshot reads event sums and post counts inside a repeatable-read
// read-only transaction so the summary never mixes counts from different
// points in time with events ingested mid-computation.
func (r *AnalyticsRepository) Snapshot() (*AnalyticsSnapshot, error) {
	tx, err := r.DB.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, appErrors.NewStorageError("begin analytics snapshot", err)
	}
	defer tx.Rollback()

	snap := &AnalyticsSnapshot{Totals: map[string]int{}}

	rows, err := tx.Query(
		`SELECT event_type, COALESCE(SUM(value), 0) FROM events GROUP BY event_type`,
	)
	if err != nil {
		return nil, appErrors.NewStorageError("sum events", err)
	}
	for rows.Next() {
		var eventType string
		var sum int
		if err := rows.Scan(&eventType, &sum); err != nil {
			rows.Close()
			return nil, appErrors.NewStorageError("scan event sum", err)
		}
		snap.Totals[eventType] = sum
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, appErrors.NewStorageError("iterate event sums", err)
	}
	rows.Close()

	if err := tx.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&snap.PostsTotal); err != nil {
		return nil, appErrors.NewStorageError("count posts", err)
	}
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM posts WHERE status=$1`, model.PostStatusPosted,
	).Scan(&snap.PostsPublished)
	if err != nil {
		return nil, appErrors.NewStorageError("count published posts", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.NewStorageError("commit analytics snapshot", err)
	}
	return snap, nil
}

var _ AnalyticsRepositoryInterface = (*AnalyticsRepository)(nil)
