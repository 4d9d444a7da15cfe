package scheduler

import (
	"github.com/robfig/cron/v3"
)

// ScheduledTask is one cron entry with its own runner, so tasks can be
// replaced or cancelled independently.
type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel chan struct{}
}

func NewScheduledTask(cronSpec string, taskFunc func()) (*ScheduledTask, error) {
	c := cron.New()
	cancel := make(chan struct{})
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			taskFunc()
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

// NextRun reports when the task will fire next.
func (s *ScheduledTask) NextRun() int64 {
	return s.cron.Entry(s.cronID).Next.Unix()
}

func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	close(s.cancel)
	s.cron.Stop()
}
