// Package app orchestrates the groundlink ingestion pipeline: a single
// producer goroutine feeding bytes through the frame decoder and field
// extractor into the time-series store, the lifecycle state machine around
// it, and the consumer-side view policy (live windows, pause freezing,
// asynchronous decimation).
package app
