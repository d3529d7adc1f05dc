package jobs

import (
	"github.com/hibiken/asynq"
)

const TaskTypeDailyDigest = "digest:daily"

const (
	QueueDefault = "default"
)

// NewDailyDigestTask builds the scheduled broadcast task. The task carries
// no payload: the scheduler marshals it once at registration, so anything
// embedded would be stale by run time. Everything the broadcast needs is
// read fresh when the handler fires.
func NewDailyDigestTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDailyDigest, nil, asynq.Queue(QueueDefault))
}
