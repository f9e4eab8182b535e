package supervisor

import "github.com/prometheus/client_golang/prometheus"

// Ping outcome labels.
const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeSkipped = "skipped"
)

var (
	pingAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Subsystem: "autoping",
		Name:      "iterations_total",
		Help:      "Auto-ping loop iterations by outcome.",
	}, []string{"outcome"})

	workerLaunches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Subsystem: "worker",
		Name:      "launches_total",
		Help:      "Background worker launch attempts by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(pingAttempts, workerLaunches)
}
