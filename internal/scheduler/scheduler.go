package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// refreshTag identifies the recurring refresh job for manual runs.
const refreshTag = "dashboard-refresh"

// Scheduler periodically drives the dashboard refresh job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	job       func()
	log       logrus.FieldLogger
}

// New creates a Scheduler firing job every interval.
func New(interval time.Duration, job func(), log logrus.FieldLogger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		job:       job,
		log:       log,
	}
}

// Start registers the refresh job and begins the schedule. The first
// run fires immediately so the display is populated without waiting a
// full interval. Singleton mode keeps cycles from overlapping: while a
// cycle is still in flight, later ticks are skipped rather than stacked.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Tag(refreshTag).SingletonMode().StartImmediately().Do(s.job)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.WithField("interval", s.interval.String()).Info("refresh schedule started")
	return nil
}

// RunNow schedules an immediate out-of-band run of the refresh job.
func (s *Scheduler) RunNow() error {
	return s.scheduler.RunByTag(refreshTag)
}

// Stop halts the schedule. An in-flight cycle is not interrupted.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
