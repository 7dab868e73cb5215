// Package metrics counts calculator calls and exposes them in the
// Prometheus text format.
//
// Collector implements calculator.Observer; register it with
// calculator.WithObserver. Gather builds client_model metric families and
// WriteText renders them with expfmt, so the output can be served from any
// /metrics handler the embedding program already has.
package metrics
