package frame

// Format identifies the wire framing of a received frame.
type Format int

const (
	// FormatLegacy frames start with MarkerLegacy and carry a 5-byte header
	// and an 8-bit message id.
	FormatLegacy Format = iota

	// FormatExtended frames start with MarkerExtended and carry a 9-byte
	// header, a 24-bit message id, and optionally a trailing signature.
	FormatExtended
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// Start-of-frame marker bytes. Both formats may be interleaved on one
// stream; the marker selects the header layout per frame.
const (
	MarkerLegacy   byte = 0xFE
	MarkerExtended byte = 0xFD
)

const (
	headerLenLegacy   = 5 // len, seq, sysid, compid, msgid
	headerLenExtended = 9 // len, incompat, compat, seq, sysid, compid, msgid[3]
	checksumLen       = 2
	signatureLen      = 13

	// incompatFlagSigned marks an extended frame carrying a trailing
	// signature. The signature is consumed to stay synchronized but not
	// verified; this core is read-only telemetry ingestion.
	incompatFlagSigned byte = 0x01
)

// Frame is one fully received, checksum-verified unit of the wire protocol.
// It is created by the Decoder and consumed immediately; the payload slice
// is owned by the Frame and not reused.
type Frame struct {
	Format      Format
	Seq         byte
	SystemID    byte
	ComponentID byte
	MessageID   uint32
	Payload     []byte
}
