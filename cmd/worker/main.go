package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-stock/cmd/odyssey/cli"
	"github.com/odyssey-erp/odyssey-stock/internal/app"
	"github.com/odyssey-erp/odyssey-stock/internal/auth"
	jobmetrics "github.com/odyssey-erp/odyssey-stock/internal/jobs"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	"github.com/odyssey-erp/odyssey-stock/jobs"
)

// Usage: worker [run | trigger <task> | stats]
func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	switch command {
	case "run":
		err = runWorker(ctx, cfg, logger)
	case "trigger", "stats":
		err = runCLI(ctx, cfg, command, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker", slog.String("command", command), slog.Any("error", err))
		os.Exit(1)
	}
}

func runWorker(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	authService := auth.NewService(auth.NewRepository(pool), cfg.SessionTTL, logger)
	cleanupJob := jobs.NewSessionCleanupJob(authService, logger, jobmetrics.NewMetrics(nil))

	cleanupTask, err := jobs.NewSessionCleanupTask(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("build cleanup task: %w", err)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSessionCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.SessionCleanupSpec, Task: cleanupTask},
		},
	})
	if err != nil {
		return fmt.Errorf("init worker: %w", err)
	}
	return worker.Run(ctx)
}

func runCLI(ctx context.Context, cfg *app.Config, command string, args []string) error {
	jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
	defer func() { _ = jobsCLI.Close() }()

	switch command {
	case "trigger":
		name := jobs.TaskSessionCleanup
		if len(args) > 0 {
			name = args[0]
		}
		info, err := jobsCLI.Trigger(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	}
	return nil
}
