package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application-level counters exported alongside the HTTP metrics.
var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogonspot_redis_errors_total",
		Help: "Total number of Redis command errors.",
	}, []string{"command"})

	// PlagiarismChecks counts similarity scans by outcome.
	PlagiarismChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogonspot_plagiarism_checks_total",
		Help: "Total number of plagiarism similarity checks.",
	}, []string{"outcome"})

	// AIRequests counts calls to the generative AI API by operation and outcome.
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogonspot_ai_requests_total",
		Help: "Total number of generative AI API calls.",
	}, []string{"operation", "outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}
