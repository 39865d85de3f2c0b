package metrics

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "datacollect"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	collectorsLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "collectors_loaded_total",
		Help:      "Count of data collectors loaded into the registry",
	}, []string{
		"identity",
	})

	collectorErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "collector_errors_total",
		Help:      "Count of collector load and callback failures",
	}, []string{
		"identity",
		"operation",
	})

	lifecycleDispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "lifecycle_dispatch_total",
		Help:      "Count of lifecycle events dispatched to collectors",
	}, []string{
		"event",
	})

	propertiesMergedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "properties_merged_total",
		Help:      "Count of collection data items merged into test results",
	})

	sinkDroppedWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "sink_dropped_writes_total",
		Help:      "Count of sink writes dropped because the entry was already merged",
	})

	sinkEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "sink_entries",
		Help:      "Number of in-flight test case entries held by the sink",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordCollectorLoaded(identity string) {
	if Debug {
		log.Debug("metric inc",
			"m", "collectors_loaded_total",
			"identity", identity,
		)
	}
	collectorsLoadedTotal.WithLabelValues(identity).Inc()
}

func RecordCollectorError(identity string, operation string) {
	if Debug {
		log.Debug("metric inc",
			"m", "collector_errors_total",
			"identity", identity,
			"operation", operation,
		)
	}
	collectorErrorsTotal.WithLabelValues(identity, operation).Inc()
}

// RecordCollectorErrorDetails appends a cleaned error label to the operation
func RecordCollectorErrorDetails(identity string, operation string, err error) {
	if err == nil {
		return
	}
	RecordCollectorError(identity, operation+"."+errToLabel(err))
}

func RecordDispatch(event string) {
	if Debug {
		log.Debug("metric inc",
			"m", "lifecycle_dispatch_total",
			"event", event,
		)
	}
	lifecycleDispatchTotal.WithLabelValues(event).Inc()
}

func RecordPropertiesMerged(testCaseID string, count int) {
	if count <= 0 {
		return
	}
	if Debug {
		log.Debug("metric add",
			"m", "properties_merged_total",
			"test_case_id", testCaseID,
			"count", count,
		)
	}
	propertiesMergedTotal.Add(float64(count))
}

func RecordSinkDroppedWrite() {
	sinkDroppedWritesTotal.Inc()
}

func SetSinkEntries(n int) {
	sinkEntries.Set(float64(n))
}
