package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

type fakeExpirer struct {
	deleted int64
	err     error
	called  int
}

func (f *fakeExpirer) ExpireCompleted(context.Context) (int64, error) {
	f.called++
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

func TestExpiryJobRunsOnce(t *testing.T) {
	expirer := &fakeExpirer{deleted: 7}
	job, err := NewExpiryJob(ExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Calls:  expirer,
	})
	if err != nil {
		t.Fatalf("NewExpiryJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if expirer.called != 1 {
		t.Fatalf("expected service called once, got %d", expirer.called)
	}
}

func TestExpiryJobPropagatesErrors(t *testing.T) {
	job, err := NewExpiryJob(ExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Calls:  &fakeExpirer{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewExpiryJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
