package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newslingo/newslingo-bot/internal/bot"
	"github.com/newslingo/newslingo-bot/internal/database"
	"github.com/newslingo/newslingo-bot/internal/digest"
	"github.com/newslingo/newslingo-bot/internal/jobs"
	jobhandlers "github.com/newslingo/newslingo-bot/internal/jobs/handlers"
	"github.com/newslingo/newslingo-bot/internal/lifecycle"
	"github.com/newslingo/newslingo-bot/internal/llm"
	"github.com/newslingo/newslingo-bot/internal/news"
	"github.com/newslingo/newslingo-bot/internal/repository"
	"github.com/newslingo/newslingo-bot/internal/state"
	"github.com/newslingo/newslingo-bot/pkg/config"
	"github.com/newslingo/newslingo-bot/pkg/graceful"
	"github.com/newslingo/newslingo-bot/pkg/logger"
	redisclient "github.com/newslingo/newslingo-bot/pkg/redis"
)

const migrationsDir = "migrations"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	})
	slog.SetDefault(log)

	log.Info("starting newslingo bot", slog.String("env", cfg.AppEnv))

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, migrationsDir); err != nil {
		return err
	}

	rdb, err := redisclient.New(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	stateStorage := state.NewRedisStorage(rdb.Client, log)
	fsm := state.NewStateMachine(stateStorage, log, rdb.Client)

	users := repository.NewUserRepository(db, log)
	transcripts := repository.NewTranscriptRepository(db, log)
	usage := repository.NewUsageRepository(db, log)

	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}

	fetcher := news.NewFetcher(cfg.News, nil, log)
	digests := digest.NewService(llmClient, usage, log)

	tgBot, err := bot.New(*cfg, log, bot.Deps{
		FSM:         fsm,
		Users:       users,
		Transcripts: transcripts,
		Usage:       usage,
		Fetcher:     fetcher,
		Digests:     digests,
	})
	if err != nil {
		return err
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	scheduler := jobs.NewScheduler(redisOpt, log)
	if err := scheduler.RegisterTasks(cfg.Broadcast.CronSpec); err != nil {
		return err
	}
	scheduler.Run()

	worker := jobs.NewWorker(redisOpt, log)
	worker.RegisterHandler(jobs.TaskTypeDailyDigest, jobhandlers.NewDailyDigestHandler(
		users,
		transcripts,
		digests,
		fetcher,
		tgBot,
		cfg.Broadcast.BatchSize,
		cfg.Broadcast.BatchPause,
		log,
	))

	go func() {
		if err := worker.Run(); err != nil {
			log.Error("jobs worker stopped", slog.Any("error", err))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := graceful.NewServer(log, &http.Server{
		Addr:    cfg.Server.Port,
		Handler: logger.Middleware(mux),
	}, cfg.Server.ShutdownTimeout)

	go func() {
		if err := httpServer.ListenAndServe(ctx); err != nil {
			log.Error("http server stopped", slog.Any("error", err))
		}
	}()

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram-bot", func(context.Context) error {
		tgBot.Stop()
		return nil
	})
	shutdown.Register("scheduler", func(context.Context) error {
		scheduler.Shutdown()
		return nil
	})
	shutdown.Register("jobs-worker", func(context.Context) error {
		worker.Shutdown()
		return nil
	})

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := shutdown.Execute(shutdownCtx); err != nil {
			log.Error("shutdown finished with errors", slog.Any("error", err))
		}
	}()

	tgBot.Start()

	log.Info("newslingo bot stopped")

	return nil
}
