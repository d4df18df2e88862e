// cmd/worker/main.go
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/growthlabs/xgrowth-backend/internal/config"
	"github.com/growthlabs/xgrowth-backend/internal/db"
	"github.com/growthlabs/xgrowth-backend/internal/publisher"
	"github.com/growthlabs/xgrowth-backend/internal/queue"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

// The worker consumes queued publish jobs from RabbitMQ and publishes each
// post through the same automation service the server uses; the status
// compare-and-swap keeps redeliveries at-most-once.
func main() {
	godotenv.Load()

	cfg, err := config.Load(context.Background())
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}
	if cfg.AMQPURL == "" {
		logger.Fatal().Msg("AMQP_URL is required for the worker")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	defer conn.Close()

	automationService := &service.AutomationService{
		PostRepo: &repository.PostRepository{DB: conn},
		Client:   publisher.New(cfg.DryRun),
		Log:      logger,
	}

	amqpQueue, err := queue.DialAMQP(cfg.AMQPURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to broker")
	}
	defer amqpQueue.Close()

	if err := queue.StartPublishSubscriber(amqpQueue, cfg.PublishQueue, automationService, logger); err != nil {
		logger.Fatal().Err(err).Msg("starting consumer")
	}

	logger.Info().Str("queue", cfg.PublishQueue).Bool("dry_run", cfg.DryRun).Msg("worker running, waiting for jobs")
	select {}
}
