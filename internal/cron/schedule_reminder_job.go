package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

type memberLister interface {
	ListModels(ctx context.Context) ([]models.User, error)
}

// ScheduleReminderJobParams configure the off-day schedule reminder job.
type ScheduleReminderJobParams struct {
	Logger   *logger.Logger
	Users    memberLister
	Now      func() time.Time
	Location *time.Location
}

// ScheduleReminderJob logs members who have not entered any off days for
// the upcoming month. Runs every cycle but only reports from the 28th.
type ScheduleReminderJob struct {
	logg  *logger.Logger
	users memberLister
	now   func() time.Time
	loc   *time.Location
}

// NewScheduleReminderJob builds the reminder job.
func NewScheduleReminderJob(params ScheduleReminderJobParams) (*ScheduleReminderJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user service required")
	}
	job := &ScheduleReminderJob{
		logg:  params.Logger,
		users: params.Users,
		now:   params.Now,
		loc:   params.Location,
	}
	if job.now == nil {
		job.now = time.Now
	}
	if job.loc == nil {
		job.loc = time.Local
	}
	return job, nil
}

func (j *ScheduleReminderJob) Name() string { return "schedule-reminder" }

func (j *ScheduleReminderJob) Run(ctx context.Context) error {
	members, err := j.users.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	missing := calls.MissingNextMonthSchedule(members, j.now().In(j.loc))
	if len(missing) == 0 {
		j.logg.Info(ctx, "all members have next-month schedules")
		return nil
	}

	j.logg.Warn(j.logg.WithField(ctx, "members", missing), "members missing next-month schedules")
	return nil
}
