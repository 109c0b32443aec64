package daemon

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metric descriptors for the mediator.
type Metrics struct {
	transcriptsParsed *prometheus.CounterVec
	parseFallbacks    prometheus.Counter
	resolutions       *prometheus.CounterVec
	recommendations   prometheus.Counter
	gamesStored       prometheus.Gauge
}

// NewMetrics creates and registers the mediator's Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		transcriptsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "judged_transcripts_parsed_total",
			Help: "Transcripts parsed, by kind (listing or history).",
		}, []string{"kind"}),
		parseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "judged_parse_fallbacks_total",
			Help: "Listing parses that recovered no status (all-defaults result).",
		}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "judged_resolutions_total",
			Help: "Command context resolutions, by outcome.",
		}, []string{"outcome"}),
		recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "judged_recommendations_total",
			Help: "Recommendation sets served.",
		}),
		gamesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "judged_games_stored",
			Help: "Game records currently in the backing store.",
		}),
	}

	prometheus.MustRegister(
		m.transcriptsParsed,
		m.parseFallbacks,
		m.resolutions,
		m.recommendations,
		m.gamesStored,
	)
	return m
}

// Serve exposes /metrics on the given address. Runs until the listener
// fails; start it in a goroutine.
func (m *Metrics) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("metrics: listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics: listener failed: %v", err)
	}
}
