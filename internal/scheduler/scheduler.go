// Package scheduler runs the nightly maintenance tasks: queuing audio
// backfill for words without pronunciation clips and keeping the SQLite
// file compact.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/worker"
)

type Scheduler struct {
	cron *gocron.Scheduler
	pool *worker.Pool
	job  worker.Job
	db   *db.DB
	log  *logger.Logger
}

// New creates the maintenance scheduler. job may be nil when audio
// generation is not configured.
func New(pool *worker.Pool, job worker.Job, database *db.DB) *Scheduler {
	return &Scheduler{
		cron: gocron.NewScheduler(time.UTC),
		pool: pool,
		job:  job,
		db:   database,
		log:  logger.Default().WithPrefix("scheduler"),
	}
}

// Start schedules the nightly run at the given hour (UTC) and begins
// executing asynchronously.
func (s *Scheduler) Start(hour int) {
	at := fmt.Sprintf("%02d:00", hour%24)
	s.cron.Every(1).Day().At(at).Do(s.runNightly)
	s.cron.StartAsync()
	s.log.Info("nightly maintenance scheduled at %s UTC", at)
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runNightly() {
	s.log.Info("nightly maintenance started")

	if s.job != nil && s.pool != nil {
		if !s.pool.TrySubmit(s.job) {
			s.log.Warn("audio backfill not queued, worker queue full")
		}
	}

	if s.db.DriverName() == "sqlite3" {
		if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
			s.log.Warn("wal checkpoint failed: %v", err)
		}
		if _, err := s.db.Exec(`ANALYZE`); err != nil {
			s.log.Warn("analyze failed: %v", err)
		}
	}
	s.log.Info("nightly maintenance finished")
}
