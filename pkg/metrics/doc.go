/*
Package metrics provides Prometheus instrumentation for drfsim, plus a small
health snapshot suitable for a batch job rather than a long-lived service.

Metrics are registered against the default Prometheus registry at package
init and exposed via Handler. Collector polls an *engine.Engine's read-only
AppStats/NodeStats and updates the corresponding gauges. Engine.Run holds the
engine's lock for the whole run, so a collection never observes a run in
progress: one that overlaps Run waits until Run returns.
*/
package metrics
