package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	walkPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dogsteps_service",
		Subsystem: "persistence",
		Name:      "last_walk_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent walk session persisted to Postgres.",
	})
	humanStepsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dogsteps_service",
		Subsystem: "estimation",
		Name:      "human_steps_total",
		Help:      "Total raw human steps ingested across walk sessions.",
	})
	dogStepsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dogsteps_service",
		Subsystem: "estimation",
		Name:      "estimated_dog_steps_total",
		Help:      "Total estimated dog steps produced by the conversion model.",
	})
	breedFallbackCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dogsteps_service",
		Subsystem: "estimation",
		Name:      "breed_fallbacks_total",
		Help:      "Count of estimations that fell back to the default breed entry.",
	})
)

func init() {
	prometheus.MustRegister(walkPersistGauge, humanStepsCounter, dogStepsCounter, breedFallbackCounter)
}

// RecordWalkPersisted updates the persistence watermark gauge.
func RecordWalkPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	walkPersistGauge.Set(float64(ts.Unix()))
}

// RecordStepsEstimated accumulates ingested and derived step totals.
func RecordStepsEstimated(humanSteps, dogSteps int) {
	if humanSteps > 0 {
		humanStepsCounter.Add(float64(humanSteps))
	}
	if dogSteps > 0 {
		dogStepsCounter.Add(float64(dogSteps))
	}
}

// RecordBreedFallback counts lookups that resolved to the default breed.
func RecordBreedFallback() {
	breedFallbackCounter.Inc()
}
