package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobportal",
	Subsystem: "client",
	Name:      "api_requests_total",
	Help:      "Number of API requests by operation and outcome",
}, []string{"operation", "outcome"})

var UploadBytes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "jobportal",
	Subsystem: "client",
	Name:      "upload_bytes_total",
	Help:      "Number of resume bytes uploaded",
})

var RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobportal",
	Subsystem: "client",
	Name:      "realtime_events_total",
	Help:      "Number of realtime events received by type",
}, []string{"event"})

var RealtimeConnects = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "jobportal",
	Subsystem: "client",
	Name:      "realtime_connects_total",
	Help:      "Number of realtime connections established",
})
