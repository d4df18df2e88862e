// cmd/seeder/main.go
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/growthlabs/xgrowth-backend/internal/config"
	"github.com/growthlabs/xgrowth-backend/internal/db"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

// Seeds a demo campaign through the scheduling service so the seeded posts
// obey the same composition and truncation rules as real ones.
func main() {
	godotenv.Load()

	cfg, err := config.Load(context.Background())
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		logger.Fatal().Err(err).Msg("migrating schema")
	}

	schedulerService := &service.SchedulerService{
		CampaignRepo: &repository.CampaignRepository{DB: conn},
		Log:          logger,
	}

	result, err := schedulerService.ScheduleCampaign(service.ScheduleCampaignParams{
		Name:     "Launch week",
		Persona:  "Indie hacker",
		Audience: "solo founders",
		Hooks: []string{
			"Shipping beats planning.",
			"Your first 100 users come from conversations, not ads.",
			"Build the smallest thing that could possibly work.",
		},
		Hashtags:       []string{"buildinpublic", "indiehackers"},
		StartAt:        time.Now().UTC().Add(time.Minute).Format(time.RFC3339),
		CadenceMinutes: 60,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding campaign")
	}

	logger.Info().
		Int("campaign_id", result.CampaignID).
		Int("scheduled_posts", result.ScheduledPosts).
		Msg("database seeding completed")
}
