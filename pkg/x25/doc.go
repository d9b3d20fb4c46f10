// Package x25 implements the 16-bit X.25/MCRF4XX checksum used to validate
// telemetry frames.
//
// The accumulator is a pure function of its current state and one input byte;
// it performs no allocation and is safe to reuse via Reset. Frame validation
// accumulates the header (excluding the start marker), the payload, and
// finally the message definition's crc-extra seed byte:
//
//	sum := x25.FrameChecksum(header, payload, crcExtra)
//
// The seed byte is derived from the message's canonical field layout, so a
// dialect mismatch between sender and receiver surfaces as a checksum failure
// rather than silently misdecoded fields.
package x25
