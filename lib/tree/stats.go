package tree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xtree/prbt"
)

// rbTreeStats publishes mutation and query counters for one tree
// instance through the global meter provider. Every version derived
// from the instance shares the sink; a nil sink swallows all record
// calls.
type rbTreeStats struct {
	elemNum        atomic.Int64
	attrs          attribute.Set
	insertCounter  metric.Int64Counter
	removeCounter  metric.Int64Counter
	queryCounter   metric.Int64Counter
	elemCounter    metric.Int64UpDownCounter
	elemGauge      metric.Int64ObservableGauge
	depthHistogram metric.Int64Histogram
}

func newRBTreeStats(name string) *rbTreeStats {
	if len(strings.TrimSpace(name)) <= 0 {
		slog.Warn("[rbtree] empty stats instance name, fallback to default")
		name = "default"
	}
	meter := otel.Meter(fmt.Sprintf("%s/%s", RBTreeStatsName, name))
	stats := &rbTreeStats{
		attrs: attribute.NewSet(attribute.String("prbt_instance", name)),
		insertCounter: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"prbt.insert.total",
			metric.WithDescription("The total of insert operations applied to any version."),
		)),
		removeCounter: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"prbt.remove.total",
			metric.WithDescription("The total of remove operations applied to any version."),
		)),
		queryCounter: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"prbt.query.total",
			metric.WithDescription("The total of point and bound queries served by any version."),
		)),
		elemCounter: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"prbt.elem.count",
			metric.WithDescription("The element count delta accumulated across derived versions."),
		)),
		depthHistogram: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"prbt.zoom.depth",
			metric.WithDescription("The amount of nodes visited by each mutation descent from the root."),
		)),
	}
	stats.elemGauge = lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"prbt.latest.elem.count",
		metric.WithDescription("The element count of the most recently derived version."),
		metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
			observer.Observe(stats.elemNum.Load(), metric.WithAttributeSet(stats.attrs))
			return nil
		}),
	))
	return stats
}

func (stats *rbTreeStats) RecordInsert() {
	if stats == nil {
		return
	}
	stats.insertCounter.Add(context.Background(), 1, metric.WithAttributeSet(stats.attrs))
}

func (stats *rbTreeStats) RecordRemove() {
	if stats == nil {
		return
	}
	stats.removeCounter.Add(context.Background(), 1, metric.WithAttributeSet(stats.attrs))
}

func (stats *rbTreeStats) RecordQuery() {
	if stats == nil {
		return
	}
	stats.queryCounter.Add(context.Background(), 1, metric.WithAttributeSet(stats.attrs))
}

func (stats *rbTreeStats) RecordZoomDepth(depth int64) {
	if stats == nil {
		return
	}
	stats.depthHistogram.Record(context.Background(), depth, metric.WithAttributeSet(stats.attrs))
}

func (stats *rbTreeStats) RecordElemDelta(delta int64) {
	if stats == nil {
		return
	}
	stats.elemNum.Add(delta)
	stats.elemCounter.Add(context.Background(), delta, metric.WithAttributeSet(stats.attrs))
}
