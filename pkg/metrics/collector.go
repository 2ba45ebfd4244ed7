package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes prediction lifecycle metrics to Prometheus.
type Collector struct {
	gatherer prometheus.Gatherer

	Predictions *prometheus.CounterVec
	Duration    prometheus.Histogram
	InFlight    prometheus.Gauge
	CacheHits   prometheus.Counter
}

// NewCollector registers prediction metrics against the provided registerer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neo_predictions_total",
		Help: "Prediction requests that reached a terminal state, by outcome.",
	}, []string{"outcome"})
	if err := reg.Register(predictions); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector neo_predictions_total already registered with incompatible type")
		}
		predictions = existing
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "neo_prediction_duration_seconds",
		Help:    "Round trip duration of classifier requests.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}), "neo_prediction_duration_seconds")
	if err != nil {
		return nil, err
	}

	inFlight, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neo_predictions_in_flight",
		Help: "Classifier requests currently outstanding.",
	}), "neo_predictions_in_flight")
	if err != nil {
		return nil, err
	}

	cacheHits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neo_prediction_cache_hits_total",
		Help: "Predictions served from the result cache without calling the classifier.",
	}), "neo_prediction_cache_hits_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:    gatherer,
		Predictions: predictions,
		Duration:    duration,
		InFlight:    inFlight,
		CacheHits:   cacheHits,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// RequestStarted bumps the in-flight gauge.
func (c *Collector) RequestStarted() {
	if c == nil || c.InFlight == nil {
		return
	}
	c.InFlight.Inc()
}

// RequestFinished records the outcome of one classifier round trip.
func (c *Collector) RequestFinished(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.InFlight != nil {
		c.InFlight.Dec()
	}
	if c.Predictions != nil {
		c.Predictions.WithLabelValues(outcome).Inc()
	}
	if c.Duration != nil {
		c.Duration.Observe(elapsed.Seconds())
	}
}

// CacheHit counts a prediction served from cache.
func (c *Collector) CacheHit() {
	if c == nil || c.CacheHits == nil {
		return
	}
	c.CacheHits.Inc()
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
