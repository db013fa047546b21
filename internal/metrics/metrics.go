// internal/metrics/metrics.go
//
// Prometheus counters for games and guesses. A nil *Metrics is valid and
// records nothing, so callers do not need to branch on METRICS_ENABLED.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Joker666/nyt-connections-clone/internal/game"
)

// Metrics implements game.Observer.
type Metrics struct {
	registry       *prometheus.Registry
	gamesStarted   *prometheus.CounterVec
	gamesFinished  *prometheus.CounterVec
	guesses        *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started, by puzzle source",
		}, []string{"source"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games whose end sequence completed, by outcome",
		}, []string{"outcome"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Submitted guesses, by result",
		}, []string{"result"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Failed puzzle provider calls, by source",
		}, []string{"source"}),
	}
	m.registry.MustRegister(
		m.gamesStarted, m.gamesFinished, m.guesses, m.providerErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Started(source string) {
	if m == nil {
		return
	}
	m.gamesStarted.WithLabelValues(source).Inc()
}

func (m *Metrics) ProviderError(source string) {
	if m == nil {
		return
	}
	m.providerErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) Guess(r game.Result) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(string(r)).Inc()
}

func (m *Metrics) Finished(won bool) {
	if m == nil {
		return
	}
	outcome := "lost"
	if won {
		outcome = "won"
	}
	m.gamesFinished.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
