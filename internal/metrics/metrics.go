// Package metrics publishes simulation counters on the global OTel meter.
// With no meter provider installed the counters are no-ops.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rescuesim/simulator/pkg/core"
)

// Recorder holds the simulation's counters.
type Recorder struct {
	ticks        metric.Int64Counter
	pickups      metric.Int64Counter
	deliveries   metric.Int64Counter
	points       metric.Int64Counter
	destructions metric.Int64Counter
	collisions   metric.Int64Counter
}

// NewRecorder registers the counters.
func NewRecorder() (*Recorder, error) {
	m := meter()
	r := &Recorder{}
	var err error

	r.ticks, err = m.Int64Counter(
		"sim.ticks",
		metric.WithDescription("Total simulation ticks processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ticks counter: %w", err)
	}

	r.pickups, err = m.Int64Counter(
		"sim.pickups",
		metric.WithDescription("Total resources picked up"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pickups counter: %w", err)
	}

	r.deliveries, err = m.Int64Counter(
		"sim.deliveries",
		metric.WithDescription("Total base deliveries"),
	)
	if err != nil {
		return nil, fmt.Errorf("create deliveries counter: %w", err)
	}

	r.points, err = m.Int64Counter(
		"sim.points",
		metric.WithDescription("Total points scored by deliveries"),
	)
	if err != nil {
		return nil, fmt.Errorf("create points counter: %w", err)
	}

	r.destructions, err = m.Int64Counter(
		"sim.destructions",
		metric.WithDescription("Total vehicles destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create destructions counter: %w", err)
	}

	r.collisions, err = m.Int64Counter(
		"sim.collisions",
		metric.WithDescription("Total cross-team collisions"),
	)
	if err != nil {
		return nil, fmt.Errorf("create collisions counter: %w", err)
	}

	return r, nil
}

// ObserveTick folds one tick's events into the counters.
func (r *Recorder) ObserveTick(events core.TickEvents) {
	ctx := context.Background()
	r.ticks.Add(ctx, 1)

	for _, p := range events.Pickups {
		r.pickups.Add(ctx, 1, metric.WithAttributes(
			attribute.String("team", p.Team.String()),
			attribute.String("kind", p.Kind.String()),
		))
	}
	for _, d := range events.Deliveries {
		attrs := metric.WithAttributes(attribute.String("team", d.Team.String()))
		r.deliveries.Add(ctx, 1, attrs)
		r.points.Add(ctx, int64(d.Value), attrs)
	}
	for _, d := range events.Destructions {
		r.destructions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("team", d.Team.String()),
			attribute.String("cause", string(d.Cause)),
		))
	}
	if n := len(events.Collisions); n > 0 {
		r.collisions.Add(ctx, int64(n))
	}
}
