// Package frame decodes the binary telemetry wire protocol.
//
// The Decoder is a resumable state machine: Idle (scanning for a start
// marker) → ReadingHeader → ReadingPayload → ReadingChecksum → Idle. Bytes
// may arrive in any chunk size; partial frames stay buffered between Feed
// calls and the producer never blocks.
//
//	dec := frame.NewDecoder(registry, logger)
//	for chunk := range source {
//	    for _, f := range dec.Feed(chunk) {
//	        // f is checksum-verified against the active dialect
//	    }
//	}
//
// Two framings share one stream: legacy (marker 0xFE) and extended (marker
// 0xFD, 24-bit message ids, optional trailing signature). The format is
// detected per frame from the marker byte.
//
// Frames that fail checksum validation, and frames whose message id is not
// in the active dialect, are consumed to their full declared length so
// subsequent parsing stays aligned, then dropped and counted (see Stats).
package frame
