package cron

import (
	"context"
	"fmt"

	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

type completedExpirer interface {
	ExpireCompleted(ctx context.Context) (int64, error)
}

// ExpiryJobParams configure the completed-call cleanup job.
type ExpiryJobParams struct {
	Logger *logger.Logger
	Calls  completedExpirer
}

// ExpiryJob removes done call requests completed before the current day.
type ExpiryJob struct {
	logg  *logger.Logger
	calls completedExpirer
}

// NewExpiryJob builds the cleanup job.
func NewExpiryJob(params ExpiryJobParams) (*ExpiryJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Calls == nil {
		return nil, fmt.Errorf("calls service required")
	}
	return &ExpiryJob{logg: params.Logger, calls: params.Calls}, nil
}

func (j *ExpiryJob) Name() string { return "completed-call-expiry" }

func (j *ExpiryJob) Run(ctx context.Context) error {
	deleted, err := j.calls.ExpireCompleted(ctx)
	if err != nil {
		return fmt.Errorf("expire completed calls: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "expired completed call requests")
	return nil
}
