package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application. When disabled (or without a
// license key) it returns an inert wrapper so call sites need no nil checks.
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// IsEnabled reports whether metrics are being recorded
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled && nr.Application != nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.IsEnabled() {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.IsEnabled() {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.IsEnabled() {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Domain metric helpers

// RecordTripRequestStored counts trip requests entering the geo cache
func (nr *NewRelicApp) RecordTripRequestStored() {
	nr.RecordCustomMetric("Custom/TripRequests/Stored", 1)
}

// RecordNearbyQueryLatency records geo-radius query latency
func (nr *NewRelicApp) RecordNearbyQueryLatency(latencyMs float64) {
	nr.RecordCustomMetric("Custom/TripRequests/NearbyLatencyMs", latencyMs)
}

// RecordTripAccepted records a successful acceptance with its fare
func (nr *NewRelicApp) RecordTripAccepted(fare float64) {
	nr.RecordCustomEvent("TripAccepted", map[string]interface{}{
		"fare": fare,
	})
}
