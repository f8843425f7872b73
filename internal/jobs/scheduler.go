// Package jobs owns the background schedule: rate-limiter housekeeping and
// the nightly GitHub stats refresh.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type cleaner interface {
	CleanupAll()
}

type statsSyncer interface {
	SyncAll(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	cleaner cleaner
	syncer  statsSyncer
}

func NewScheduler(cleaner cleaner, syncer statsSyncer) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		cleaner: cleaner,
		syncer:  syncer,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// limiter housekeeping every 5 minutes
	if _, err := s.cron.AddFunc("0 */5 * * * *", func() {
		s.cleaner.CleanupAll()
		log.Debug().Msg("rate limiter cleanup done")
	}); err != nil {
		return err
	}

	if s.syncer != nil {
		// nightly at 03:00
		if _, err := s.cron.AddFunc("0 0 3 * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := s.syncer.SyncAll(ctx); err != nil {
				log.Error().Err(err).Msg("github stats sync")
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info().Msg("scheduler started")
	return nil
}

// Stop halts the schedule and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
