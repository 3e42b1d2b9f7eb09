package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/odyssey-stock/internal/jobs"
)

// SessionCleaner purges expired sessions.
type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// SessionCleanupJob runs cleanup_expired_sessions on schedule.
type SessionCleanupJob struct {
	Cleaner SessionCleaner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSessionCleanupJob initialises the cleanup handler.
func NewSessionCleanupJob(cleaner SessionCleaner, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionCleanupJob {
	return &SessionCleanupJob{
		Cleaner: cleaner,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one cleanup run.
func (j *SessionCleanupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Cleaner == nil {
		return errors.New("session cleanup: handler not configured")
	}
	var payload SessionCleanupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	start := j.clock()
	tracker := j.Metrics.Track(TaskSessionCleanup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	if !payload.ScheduledFor.IsZero() {
		logger = logger.With(slog.Time("scheduled_for", payload.ScheduledFor))
	}

	removed, err := j.Cleaner.CleanupExpired(ctx)
	if err != nil {
		logger.Error("session cleanup failed", slog.Any("error", err))
		return err
	}
	j.Metrics.AddSessionsPurged(removed)
	logger.Info("session cleanup completed",
		slog.Int64("removed", removed),
		slog.Duration("duration", j.clock().Sub(start)),
	)
	return nil
}

func (j *SessionCleanupJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}
