package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
)

type PostRepositoryInterface interface {
	GetByID(id int) (*model.Post, error)
	// ListDue returns scheduled posts with publish_at <= now, earliest first.
	ListDue(now time.Time) ([]*model.Post, error)
	// ListAll returns every post ordered by publish_at ascending.
	ListAll() ([]*model.Post, error)
	// MarkPosted transitions a post scheduled -> posted, setting external_id
	// and posted_at in the same statement. Returns false when the post was
	// not in scheduled status, i.e. another caller already claimed it.
	MarkPosted(id int, externalID string, postedAt time.Time) (bool, error)
}

type PostRepository struct {
	DB *sql.DB
}

const postColumns = `id, campaign_id, text, publish_at, status, external_id, created_at, posted_at`

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.CampaignID, &p.Text, &p.PublishAt, &p.Status, &p.ExternalID, &p.CreatedAt, &p.PostedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) GetByID(id int) (*model.Post, error) {
	row := r.DB.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id=$1`, id)
	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewPostNotFound(id)
		}
		return nil, appErrors.NewStorageError("get post", err)
	}
	return p, nil
}

func (r *PostRepository) ListDue(now time.Time) ([]*model.Post, error) {
	rows, err := r.DB.Query(
		`SELECT `+postColumns+` FROM posts
		 WHERE status=$1 AND publish_at <= $2
		 ORDER BY publish_at ASC`,
		model.PostStatusScheduled, now,
	)
	if err != nil {
		return nil, appErrors.NewStorageError("list due posts", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepository) ListAll() ([]*model.Post, error) {
	rows, err := r.DB.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY publish_at ASC`)
	if err != nil {
		return nil, appErrors.NewStorageError("list posts", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]*model.Post, error) {
	posts := []*model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, appErrors.NewStorageError("scan post", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorageError("iterate posts", err)
	}
	return posts, nil
}

// MarkPosted is the compare-and-swap that makes publication at-most-once:
// the status guard in the WHERE clause means two concurrent runs can both
// select a due post but only one can transition it.
func (r *PostRepository) MarkPosted(id int, externalID string, postedAt time.Time) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE posts SET status=$1, posted_at=$2, external_id=$3
		 WHERE id=$4 AND status=$5`,
		model.PostStatusPosted, postedAt, externalID, id, model.PostStatusScheduled,
	)
	if err != nil {
		return false, appErrors.NewStorageError("mark post posted", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, appErrors.NewStorageError("mark post posted", err)
	}
	return affected > 0, nil
}

var _ PostRepositoryInterface = (*PostRepository)(nil)
