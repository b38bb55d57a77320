// Package telemetry records how long the stages of loading a ledger and
// building its views take, as a tree of named timers.
//
// Collectors travel through context so that instrumented code never needs to
// know whether timing is enabled:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "load")
//	ctx = telemetry.WithTimer(ctx, timer)
//	// ... nested StartTimer calls become children of "load" ...
//	timer.End()
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/beanreport/output"
)

type collectorKey struct{}

type timerKey struct{}

// Collector creates top level timers and reports them.
type Collector interface {
	// Start begins timing a top level operation.
	Start(name string) Timer

	// Report writes the collected timings to w. styles may be nil for plain
	// output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation. Timers are safe to use from multiple
// goroutines.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, collector)
}

// FromContext extracts the collector from context, or a collector that
// records nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey{}).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithTimer makes timer the parent of every timer subsequently started from
// the returned context.
func WithTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, timerKey{}, timer)
}

// StartTimer starts a timer nested under the context's current timer, or a
// top level timer of the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	if parent, ok := ctx.Value(timerKey{}).(Timer); ok {
		return parent.Child(name)
	}
	return FromContext(ctx).Start(name)
}
