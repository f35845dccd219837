package app

import (
	"time"

	"github.com/hacksprint/arena/internal/adapters/commits"
	"github.com/hacksprint/arena/internal/adapters/payment"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClock injects the time source shared by every time-gated component.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clk = c
		}
	}
}

// WithLockWindow overrides the selection grace window.
func WithLockWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lockWindow = d
		}
	}
}

// WithPaymentGate enables or disables payment-gated selection.
func WithPaymentGate(enabled bool) Option {
	return func(s *Service) { s.paymentGate = enabled }
}

// WithProblemCatalog supplies the fixed base problem catalog.
func WithProblemCatalog(problems []model.ProblemStatement) Option {
	return func(s *Service) { s.problems = problems }
}

// WithCommitSource injects the commit-history collaborator.
func WithCommitSource(src commits.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithPaymentProcessor injects the payment collaborator.
func WithPaymentProcessor(p payment.Processor) Option {
	return func(s *Service) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithStore injects the persistence collaborator. Without one the
// engine runs in-memory only.
func WithStore(st Store) Option {
	return func(s *Service) { s.store = st }
}

// WithPollInterval sets the background polling cadence. Zero disables
// the poller.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) { s.pollInterval = d }
}

// WithPollTimeout bounds a single upstream commit fetch.
func WithPollTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
