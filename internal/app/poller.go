package app

import (
	"context"
	"time"

	"github.com/hacksprint/arena/pkg/logger"
)

// runPoller refreshes commit snapshots on the configured cadence. Each
// team polls in its own goroutine with its own timeout, so one slow or
// failing upstream never blocks polling for another team. Failed polls
// keep the prior snapshot and are retried on the next tick; there is no
// per-poll retry.
func (s *Service) runPoller(ctx context.Context) {
	defer s.wg.Done()

	log := s.logger.Named("poller")
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.pollAll(ctx, log)
		}
	}
}

func (s *Service) pollAll(ctx context.Context, log logger.Logger) {
	for _, team := range s.teams.List(ctx) {
		if team.RepoURL == "" {
			continue
		}
		team := team
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			pollCtx, cancel := context.WithTimeout(ctx, s.pollTimeout)
			defer cancel()
			if _, err := s.tracker.Poll(pollCtx, team); err != nil {
				log.Warn(ctx, "repo poll failed; keeping last snapshot",
					logger.String("teamID", team.ID),
					logger.String("repo", team.RepoURL),
					logger.Error(err),
				)
			}
		}()
	}
}
