// Package series provides the bounded time-series store behind live plots.
//
// Each field key owns a fixed-capacity, insertion-ordered ring of
// (timestamp, value) samples; the oldest sample is evicted once capacity is
// reached. A single producer appends while any number of consumers run
// windowed queries:
//
//	store := series.NewStore(10000)
//	store.Append("HEARTBEAT.custom_mode", time.Now(), 0)
//	pts := store.Query("HEARTBEAT.custom_mode", series.Window{Start: a, Cutoff: b})
//
// Pause and Resume carry a policy signal for consumers that freeze their
// live window boundaries; the store itself never alters query semantics
// based on pause state.
package series
