// Package otel provides OpenTelemetry metric exporter bindings for
// bonsai-auth counters.
//
// [NewExporter] registers one Int64ObservableCounter per engine metric. A
// single callback reads [bonsaiauth.Engine.MetricsSnapshot] on each
// collection cycle, so export cost is paid at scrape time, not on the
// request path.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate engine state.
package otel
