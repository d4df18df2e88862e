package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	// CreateWithPosts persists a campaign and its scheduled posts in one
	// transaction: the whole batch commits or none of it does.
	CreateWithPosts(c *model.Campaign, posts []*model.Post) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(offset, limit int) ([]*model.Campaign, int, error)
	// GetCampaignStats returns post counts by status for one campaign.
	GetCampaignStats(campaignID int) (map[string]int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) CreateWithPosts(c *model.Campaign, posts []*model.Post) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return appErrors.NewStorageError("begin create campaign", err)
	}
	defer tx.Rollback()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	err = tx.QueryRow(
		`INSERT INTO campaigns (name, persona, audience, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		c.Name, c.Persona, c.Audience, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return appErrors.NewStorageError("insert campaign", err)
	}

	for _, p := range posts {
		p.CampaignID = c.ID
		p.CreatedAt = c.CreatedAt
		err = tx.QueryRow(
			`INSERT INTO posts (campaign_id, text, publish_at, status, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			p.CampaignID, p.Text, p.PublishAt, p.Status, p.CreatedAt,
		).Scan(&p.ID)
		if err != nil {
			return appErrors.NewStorageError("insert post", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return appErrors.NewStorageError("commit create campaign", err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	var c model.Campaign
	err := r.DB.QueryRow(
		`SELECT id, name, persona, audience, created_at FROM campaigns WHERE id=$1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Persona, &c.Audience, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, appErrors.NewStorageError("get campaign", err)
	}
	return &c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int) ([]*model.Campaign, int, error) {
	rows, err := r.DB.Query(
		`SELECT id, name, persona, audience, created_at
		 FROM campaigns ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, appErrors.NewStorageError("list campaigns", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Persona, &c.Audience, &c.CreatedAt); err != nil {
			return nil, 0, appErrors.NewStorageError("scan campaign", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.NewStorageError("iterate campaigns", err)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&total); err != nil {
		return nil, 0, appErrors.NewStorageError("count campaigns", err)
	}
	return campaigns, total, nil
}

func (r *CampaignRepository) GetCampaignStats(campaignID int) (map[string]int, error) {
	rows, err := r.DB.Query(
		`SELECT status, COUNT(*) FROM posts WHERE campaign_id=$1 GROUP BY status`,
		campaignID,
	)
	if err != nil {
		return nil, appErrors.NewStorageError("campaign stats", err)
	}
	defer rows.Close()

	stats := map[string]int{
		model.PostStatusScheduled: 0,
		model.PostStatusPosted:    0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, appErrors.NewStorageError("scan campaign stats", err)
		}
		stats[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorageError("iterate campaign stats", err)
	}
	return stats, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
