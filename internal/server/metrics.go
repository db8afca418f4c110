package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ugcdrift_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route"})

	scoredPairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ugcdrift_scored_pairs_total",
		Help: "Total number of sentence pairs scored",
	})

	pairDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ugcdrift_pair_cosine_distance",
		Help:    "Distribution of cosine distances between standard and UGC sentences",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	scoringErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ugcdrift_scoring_errors_total",
		Help: "Total number of failed scoring requests",
	})
)

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		route := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		totalRequests.WithLabelValues(route).Inc()
	})
}

func observeDistances(values []float64) {
	scoredPairs.Add(float64(len(values)))
	for _, v := range values {
		pairDistance.Observe(v)
	}
}
