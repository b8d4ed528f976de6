package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/rescuesim/simulator/internal/metrics"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
