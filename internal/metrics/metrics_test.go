package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joker666/nyt-connections-clone/internal/game"
)

func TestMetricsCounters(t *testing.T) {
	m := New("connections")
	m.Started("static")
	m.Guess(game.ResultOneAway)
	m.Guess(game.ResultOneAway)
	m.Guess(game.ResultWin)
	m.Finished(true)
	m.ProviderError("ai")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.gamesStarted.WithLabelValues("static")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.guesses.WithLabelValues("one-away")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guesses.WithLabelValues("win")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gamesFinished.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerErrors.WithLabelValues("ai")))
}

func TestMetricsHandler(t *testing.T) {
	m := New("connections")
	m.Guess(game.ResultSame)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `connections_guesses_total{result="same"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Started("static")
		m.Guess(game.ResultLoss)
		m.Finished(false)
		m.ProviderError("sqlite")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
