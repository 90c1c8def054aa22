package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/diegoclair/slack-idea-bot/internal/config"
	"github.com/diegoclair/slack-idea-bot/internal/database"
	"github.com/diegoclair/slack-idea-bot/internal/domain/service"
	"github.com/diegoclair/slack-idea-bot/internal/handlers"
	"github.com/diegoclair/slack-idea-bot/internal/ratelimit"
	"github.com/diegoclair/slack-idea-bot/internal/retry"
	"github.com/diegoclair/slack-idea-bot/internal/scheduler"
	"github.com/diegoclair/slack-idea-bot/migrator/sqlite"
	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const (
	dailyJobTimeout = 2 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		switch {
		case errors.Is(err, config.ErrEmptyBotToken), errors.Is(err, config.ErrEmptySigningSecret):
			log.Fatalf("Missing Slack credentials: %v", err)
		default:
			log.Fatalf("Invalid configuration: %v", err)
		}
	}

	if err := logger.Init(cfg.App.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	logger.Info("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Migrations completed successfully")

	slackClient := slack.New(cfg.Slack.BotToken)

	botUserID := cfg.Slack.BotUserID
	if botUserID == "" {
		auth, err := slackClient.AuthTestContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve bot user id: %w", err)
		}
		botUserID = auth.UserID
		logger.Info("Resolved bot user", zap.String("user_id", botUserID), zap.String("team", auth.Team))
	}

	dm := database.NewInstance(db, retry.Policy{
		MaxAttempts:    cfg.Database.MaxRetries,
		BaseDelay:      cfg.Database.RetryBaseDelay,
		AttemptTimeout: cfg.Database.Timeout,
	})

	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	limiter.StartCleanup(ctx, cfg.RateLimit.CleanupInterval)

	deferred := scheduler.NewDeferred()
	defer deferred.Stop()

	services := service.NewInstance(dm, slackClient, limiter, deferred, service.Options{
		BotUserID:          botUserID,
		AdminUserID:        cfg.Slack.AdminUserID,
		TriggerWord:        cfg.Idea.TriggerWord,
		IdeaChannelID:      cfg.Idea.ChannelID,
		DailyChannelID:     cfg.Daily.ChannelID,
		DadJokeProbability: cfg.Idea.DadJokeProbability,
		DadJokeDelay:       cfg.Idea.DadJokeDelay,
		ReplyDelayMin:      cfg.Idea.ReplyDelayMin,
		ReplyDelayMax:      cfg.Idea.ReplyDelayMax,
		DailySchedule:      cfg.Daily.Cron,
		DailyTimezone:      cfg.Daily.Timezone,
	})

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	sched, err := scheduler.New(cfg.Daily.Cron, loc, dailyJobTimeout, services.Daily.Run)
	if err != nil {
		return err
	}
	services.Command.SetNextRun(sched.Next)

	sched.Start()
	defer sched.Stop()

	handler := handlers.New(services.Idea, services.Command, cfg.Slack.SigningSecret)
	defer handler.Wait()

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handlers.NewRouter(handler, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
