// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/newslingo/newslingo-bot/internal/state"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates handled labeled by action and status",
		},
		[]string{"action", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of onboarding dialog transitions",
		},
		[]string{"from", "to"},
	)
	completionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_completions_total",
			Help: "Total number of completion calls by status",
		},
		[]string{"status"},
	)
	tokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total number of tokens consumed by direction",
		},
		[]string{"direction"},
	)
	digestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_digests_total",
			Help: "Total number of news digests generated",
		},
	)
	broadcastBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_batches_total",
			Help: "Total number of broadcast batches processed",
		},
	)
	broadcastFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_failures_total",
			Help: "Total number of per-user broadcast failures",
		},
	)
)

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

// RecordUpdate increments update counters and records handling duration.
func RecordUpdate(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(action, status).Inc()
	updateDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordStateTransition tracks onboarding dialog transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	if to == "" {
		to = "none"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordCompletion counts one completion call outcome.
func RecordCompletion(status string) {
	if status == "" {
		status = "unknown"
	}

	completionsTotal.WithLabelValues(status).Inc()
}

// RecordTokens accumulates token counts reported by the provider.
func RecordTokens(input, output int) {
	tokensTotal.WithLabelValues("input").Add(float64(input))
	tokensTotal.WithLabelValues("output").Add(float64(output))
}

// RecordDigest counts one generated news digest.
func RecordDigest() {
	digestsTotal.Inc()
}

// RecordBroadcastBatch counts one processed broadcast batch.
func RecordBroadcastBatch() {
	broadcastBatchesTotal.Inc()
}

// RecordBroadcastFailure counts one per-user broadcast failure.
func RecordBroadcastFailure() {
	broadcastFailuresTotal.Inc()
}
