package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Flusher drops cached data.
type Flusher interface {
	Flush()
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron  *cron.Cron
	Cache Flusher
}

// NewScheduler creates a new Scheduler. Specs carry a seconds field.
func NewScheduler(cache Flusher) *Scheduler {
	return &Scheduler{
		Cron:  cron.New(cron.WithSeconds()),
		Cache: cache,
	}
}

// RegisterAll registers the after-close cache flush.
func (s *Scheduler) RegisterAll(cacheFlushCron string) error {
	if _, err := s.Cron.AddFunc(cacheFlushCron, s.flushCache); err != nil {
		return fmt.Errorf("register cache flush task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// FlushNow runs the cache flush immediately.
func (s *Scheduler) FlushNow() {
	s.flushCache()
}

func (s *Scheduler) flushCache() {
	if s.Cache == nil {
		return
	}
	log.Info("running cache flush task")
	s.Cache.Flush()
}
