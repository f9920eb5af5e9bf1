// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the conversion counters. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Conversions by scheme and outcome (ok or a failure category)
	Conversions *prometheus.CounterVec

	ConvertLatency prometheus.Histogram

	TrustedKeys prometheus.Gauge
}

// New registers the conversion metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Conversions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthpass_conversions_total",
			Help: "Total credential conversions by scheme and outcome",
		}, []string{"scheme", "outcome"}),

		ConvertLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "healthpass_convert_duration_seconds",
			Help:    "Duration of a full credential to pass conversion",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),

		TrustedKeys: f.NewGauge(prometheus.GaugeOpts{
			Name: "healthpass_trusted_keys",
			Help: "Number of signing keys loaded from the trust list",
		}),
	}
}

// IncrementConversion records one conversion outcome.
func (m *Metrics) IncrementConversion(scheme, outcome string) {
	if m != nil {
		m.Conversions.WithLabelValues(scheme, outcome).Inc()
	}
}

// ObserveConvertLatency records the duration of one conversion.
func (m *Metrics) ObserveConvertLatency(d time.Duration) {
	if m != nil {
		m.ConvertLatency.Observe(d.Seconds())
	}
}

// SetTrustedKeys records the size of the signing key index.
func (m *Metrics) SetTrustedKeys(n int) {
	if m != nil {
		m.TrustedKeys.Set(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
