package controllers

import (
	"context"

	"kitemate/src/models"
	"kitemate/src/scheduler"
	"kitemate/src/utils"
)

// LoadAllRefreshSchedules loads every active schedule and arms a cron task
// for each.
func (c *Controller) LoadAllRefreshSchedules(ctx context.Context) error {
	schedules, err := c.ScheduleRepository.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, schedule := range schedules {
		if _, err := c.ScheduleRefresh(ctx, schedule); err != nil {
			return err
		}
	}
	return nil
}

// LoadRefreshScheduleByID (re)arms a single schedule, picking up cron changes
// without restarting the worker. Returns when the task fires next.
func (c *Controller) LoadRefreshScheduleByID(ctx context.Context, id uint) (int64, error) {
	schedule, err := c.ScheduleRepository.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	task, err := c.ScheduleRefresh(ctx, schedule)
	if err != nil {
		return 0, err
	}
	return task.NextRun(), nil
}

// ScheduleRefresh replaces any existing cron task for the schedule with a new
// one running the quote refresh.
func (c *Controller) ScheduleRefresh(ctx context.Context, schedule *models.RefreshSchedule) (*scheduler.ScheduledTask, error) {
	c.SchedulerMutex.Lock()
	if existingTask, exists := c.Schedulers[schedule.ID]; exists {
		existingTask.Cancel()
		delete(c.Schedulers, schedule.ID)
	}
	c.SchedulerMutex.Unlock()

	logger := utils.LoggerFromContext(ctx)
	scheduleID := schedule.ID
	newTask, err := scheduler.NewScheduledTask(schedule.CronTime, func() {
		runCtx := utils.WithLogger(context.Background(), logger)
		if err := c.RunRefresh(runCtx, scheduleID); err != nil {
			logger.WithError(err).WithField("schedule_id", scheduleID).Error("quote refresh failed")
		}
	})
	if err != nil {
		return nil, err
	}

	c.SchedulerMutex.Lock()
	c.Schedulers[schedule.ID] = newTask
	c.SchedulerMutex.Unlock()

	return newTask, nil
}

// RunRefresh executes one refresh pass and stamps the schedule's last run.
func (c *Controller) RunRefresh(ctx context.Context, scheduleID uint) error {
	if err := c.RefreshService.RefreshAllQuotes(ctx); err != nil {
		return err
	}
	return c.ScheduleRepository.TouchLastRun(ctx, scheduleID)
}
