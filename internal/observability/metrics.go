package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	buildSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forgectl",
			Subsystem: "provision",
			Name:      "steps_total",
			Help:      "Provisioning steps executed.",
		},
		[]string{"step", "success"},
	)
	buildStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forgectl",
			Subsystem: "provision",
			Name:      "step_duration_seconds",
			Help:      "Provisioning step duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"step", "success"},
	)
	builds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forgectl",
			Subsystem: "provision",
			Name:      "builds_total",
			Help:      "Image builds executed.",
		},
		[]string{"success"},
	)
	buildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forgectl",
			Subsystem: "provision",
			Name:      "build_duration_seconds",
			Help:      "Image build duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"success"},
	)
	docRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forgectl",
			Subsystem: "docs",
			Name:      "renders_total",
			Help:      "Documentation renders executed.",
		},
		[]string{"success"},
	)
	docDirectives = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forgectl",
			Subsystem: "docs",
			Name:      "directives_total",
			Help:      "Task directives resolved during rendering.",
		},
		[]string{"resolved"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forgectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forgectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	volumeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forgectl",
			Subsystem: "volume",
			Name:      "operations_total",
			Help:      "Docker volume plugin operations.",
		},
		[]string{"operation", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			buildSteps, buildStepDuration, builds, buildDuration,
			docRenders, docDirectives,
			httpRequests, httpDuration, volumeOps,
		)
	})
}

func RecordBuildStep(step string, duration time.Duration, success bool) {
	RegisterMetrics()
	label := strconv.FormatBool(success)
	buildSteps.WithLabelValues(step, label).Inc()
	buildStepDuration.WithLabelValues(step, label).Observe(duration.Seconds())
}

func RecordBuild(duration time.Duration, success bool) {
	RegisterMetrics()
	label := strconv.FormatBool(success)
	builds.WithLabelValues(label).Inc()
	buildDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func RecordRender(success bool) {
	RegisterMetrics()
	docRenders.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func RecordDirective(resolved bool) {
	RegisterMetrics()
	docDirectives.WithLabelValues(strconv.FormatBool(resolved)).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordVolumeOp(operation string, success bool) {
	RegisterMetrics()
	volumeOps.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}
