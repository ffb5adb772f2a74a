package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poptracker_commands_total",
			Help: "Total number of slash commands handled by command and status.",
		},
		[]string{"command", "status"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poptracker_command_duration_seconds",
			Help:    "Slash command handling latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	flagCompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poptracker_flag_completions_total",
			Help: "Total number of flags newly completed, by flag key.",
		},
		[]string{"flag"},
	)

	flagResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poptracker_flag_resets_total",
		Help: "Total number of player flag resets.",
	})
)

// RecordFlagCompletion counts a false to true transition of a flag.
func RecordFlagCompletion(flagKey string) {
	flagCompletionsTotal.WithLabelValues(flagKey).Inc()
}

func RecordFlagReset() {
	flagResetsTotal.Inc()
}
