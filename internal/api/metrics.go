package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pgmkit/xdslconv/internal/events"
	"github.com/pgmkit/xdslconv/internal/version"
)

var metricsState = &MetricsState{}

// MetricsState holds runtime metrics for the /metrics endpoint.
type MetricsState struct {
	mu               sync.RWMutex
	startTime        time.Time
	serviceName      string
	conversions      int64
	conversionErrors int64
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics() {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
}

// SetServiceName sets the service name for metrics labels.
func SetServiceName(name string) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.serviceName = name
}

// GetServiceName returns the current service name.
func GetServiceName() string {
	metricsState.mu.RLock()
	defer metricsState.mu.RUnlock()
	return metricsState.serviceName
}

// IncConversions increments the successful-conversion counter.
func IncConversions() {
	metricsState.mu.Lock()
	metricsState.conversions++
	metricsState.mu.Unlock()
}

// IncConversionErrors increments the failed-conversion counter.
func IncConversionErrors() {
	metricsState.mu.Lock()
	metricsState.conversionErrors++
	metricsState.mu.Unlock()
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metricsState.mu.RLock()
	startTime := metricsState.startTime
	serviceName := metricsState.serviceName
	conversions := metricsState.conversions
	conversionErrors := metricsState.conversionErrors
	metricsState.mu.RUnlock()

	uptime := time.Since(startTime).Seconds()
	eventsTotal := events.TotalCount()

	readiness.mu.RLock()
	mqttConnected := readiness.mqttConnected
	postgresConnected := readiness.postgresConnected
	readiness.mu.RUnlock()

	wsClients := events.SubscriberCount()

	mqttConnectedVal := 0
	if mqttConnected {
		mqttConnectedVal = 1
	}

	postgresConnectedVal := 0
	if postgresConnected {
		postgresConnectedVal = 1
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		if labels != "" {
			fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
		} else {
			fmt.Fprintf(w, "%s %v\n", name, value)
		}
	}

	labels := fmt.Sprintf(`service="%s",instance="%s",version="%s"`, serviceName, hostname, version.Version)

	writeMetric("xdslconv_uptime_seconds", "gauge",
		"Number of seconds since the service started", uptime, labels)

	writeMetric("xdslconv_conversions_total", "counter",
		"Total number of successful conversions since startup", conversions, labels)

	writeMetric("xdslconv_conversion_errors_total", "counter",
		"Total number of failed conversions since startup", conversionErrors, labels)

	writeMetric("xdslconv_events_total", "counter",
		"Total number of events emitted since startup", eventsTotal, labels)

	writeMetric("xdslconv_mqtt_connected", "gauge",
		"Whether the MQTT broker is connected (1) or not (0)", mqttConnectedVal, labels)

	writeMetric("xdslconv_postgres_connected", "gauge",
		"Whether PostgreSQL is connected (1) or not (0)", postgresConnectedVal, labels)

	writeMetric("xdslconv_ws_clients", "gauge",
		"Number of active WebSocket client connections", wsClients, labels)
}
