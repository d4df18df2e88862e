// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/growthlabs/xgrowth-backend/internal/config"
	"github.com/growthlabs/xgrowth-backend/internal/controller"
	"github.com/growthlabs/xgrowth-backend/internal/db"
	"github.com/growthlabs/xgrowth-backend/internal/publisher"
	"github.com/growthlabs/xgrowth-backend/internal/queue"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
	"github.com/growthlabs/xgrowth-backend/internal/service"
)

func main() {
	envLoaded := godotenv.Load() == nil

	cfg, err := config.Load(context.Background())
	if err != nil {
		// The configured level is unusable here, report at the default one.
		fallback := newLogger("")
		fallback.Fatal().Err(err).Msg("loading config")
	}
	logger := newLogger(cfg.LogLevel)
	if !envLoaded {
		logger.Info().Msg("no .env file found, relying on OS environment variables")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		logger.Fatal().Err(err).Msg("migrating schema")
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	postRepo := &repository.PostRepository{DB: conn}
	eventRepo := &repository.EventRepository{DB: conn}
	analyticsRepo := &repository.AnalyticsRepository{DB: conn}

	client := publisher.New(cfg.DryRun)

	schedulerService := &service.SchedulerService{CampaignRepo: campaignRepo, Log: logger}
	automationService := &service.AutomationService{PostRepo: postRepo, Client: client, Log: logger}
	analyticsService := &service.AnalyticsService{EventRepo: eventRepo, AnalyticsRepo: analyticsRepo, Log: logger}

	// With a broker configured the server only enqueues; cmd/worker consumes.
	// Without one, an in-process subscriber serves the enqueue path.
	var q queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("connecting to broker")
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		memQueue := queue.NewInMemoryQueue(logger)
		if err := queue.StartPublishSubscriber(memQueue, cfg.PublishQueue, automationService, logger); err != nil {
			logger.Fatal().Err(err).Msg("starting publish subscriber")
		}
		q = memQueue
	}

	if cfg.AutomationCron != "" {
		loop := cron.New()
		_, err := loop.AddFunc(cfg.AutomationCron, func() {
			if _, err := automationService.RunDue(automationService.NowUTC()); err != nil {
				logger.Error().Err(err).Msg("scheduled automation run failed")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Str("spec", cfg.AutomationCron).Msg("invalid automation cron spec")
		}
		loop.Start()
		defer loop.Stop()
	}

	campaignController := &controller.CampaignController{
		Scheduler:  schedulerService,
		Automation: automationService,
	}
	automationController := &controller.AutomationController{
		Automation:   automationService,
		Queue:        q,
		PublishTopic: cfg.PublishQueue,
	}
	analyticsController := &controller.AnalyticsController{Analytics: analyticsService}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "dry_run": cfg.DryRun})
	})

	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaignDetails)
	r.Get("/posts", campaignController.ListPosts)

	r.Post("/automation/run", automationController.RunAutomation)
	r.Post("/automation/enqueue", automationController.EnqueueAutomation)

	r.Post("/events", analyticsController.IngestEvent)
	r.Get("/analytics/summary", analyticsController.Summary)

	logger.Info().Str("port", cfg.Port).Bool("dry_run", cfg.DryRun).Msg("server running")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	// ParseLevel maps "" to NoLevel without an error; a NoLevel logger would
	// swallow everything up to and including Fatal.
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
