// Package metrics provides Prometheus metrics for the arena competition engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var (
	teamsRegistered = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "teams_registered_total",
		Help:      "Total number of teams registered.",
	})
	teamsTotal = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "arena",
		Name:      "teams_total",
		Help:      "Current number of registered teams.",
	})
	paymentsConfirmed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "payments_confirmed_total",
		Help:      "Total number of confirmed team payments.",
	})

	selectionChanges = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "selection_changes_total",
		Help:      "Total number of accepted problem-statement selections.",
	})
	selectionRejections = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "selection_rejections_total",
		Help:      "Total number of rejected selection attempts by reason.",
	}, []string{"reason"})

	scoresSubmitted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "scores_submitted_total",
		Help:      "Total number of judge score submissions.",
	})
	scoresClamped = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "scores_clamped_total",
		Help:      "Total number of submissions with at least one clamped criterion.",
	})

	repoPolls = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "repo_polls_total",
		Help:      "Total number of repository polls by outcome.",
	}, []string{"outcome"})
	repoPollDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: "arena",
		Name:      "repo_poll_duration_seconds",
		Help:      "Duration of repository polls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	sprintActive = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "arena",
		Name:      "sprint_active",
		Help:      "Whether a sprint clock is currently running (1) or not (0).",
	})
	registrationOpen = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "arena",
		Name:      "registration_open",
		Help:      "Whether registration is currently open (1) or closed (0).",
	})

	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	httpRequestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arena",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
)

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry { return registry }

// RecordTeamRegistered increments the registration counter.
func RecordTeamRegistered() { teamsRegistered.Inc() }

// UpdateTeamsTotal sets the current team count gauge.
func UpdateTeamsTotal(n int) { teamsTotal.Set(float64(n)) }

// RecordPaymentConfirmed increments the confirmed payment counter.
func RecordPaymentConfirmed() { paymentsConfirmed.Inc() }

// RecordSelectionChange increments the accepted selection counter.
func RecordSelectionChange() { selectionChanges.Inc() }

// RecordSelectionRejected increments the rejected selection counter for a reason.
func RecordSelectionRejected(reason string) { selectionRejections.WithLabelValues(reason).Inc() }

// RecordScoreSubmitted increments the score submission counter.
func RecordScoreSubmitted() { scoresSubmitted.Inc() }

// RecordScoreClamped increments the clamped submission counter.
func RecordScoreClamped() { scoresClamped.Inc() }

// RecordRepoPoll increments the poll counter for an outcome and observes its duration.
func RecordRepoPoll(outcome string, seconds float64) {
	repoPolls.WithLabelValues(outcome).Inc()
	repoPollDuration.Observe(seconds)
}

// UpdateSprintActive sets the sprint-active gauge.
func UpdateSprintActive(active bool) { sprintActive.Set(boolGauge(active)) }

// UpdateRegistrationOpen sets the registration-open gauge.
func UpdateRegistrationOpen(open bool) { registrationOpen.Set(boolGauge(open)) }

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method string, seconds float64) {
	httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
