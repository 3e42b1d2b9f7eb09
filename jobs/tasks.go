package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionCleanup removes expired and invalidated sessions.
	TaskSessionCleanup = "session:cleanup"
	// SessionCleanupSpec runs the cleanup at the top of every hour.
	SessionCleanupSpec = "0 * * * *"
)

// SessionCleanupPayload carries scheduling metadata.
type SessionCleanupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSessionCleanupTask constructs the cleanup task.
func NewSessionCleanupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SessionCleanupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionCleanup, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
