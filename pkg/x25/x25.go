package x25

// Init is the accumulator's initial value.
const Init uint16 = 0xFFFF

// Accumulator computes the 16-bit X.25 checksum incrementally.
// The zero value is NOT ready for use; call Reset or use New.
type Accumulator struct {
	sum uint16
}

// New returns an Accumulator initialized to Init.
func New() *Accumulator {
	return &Accumulator{sum: Init}
}

// Reset restores the accumulator to its initial value.
func (a *Accumulator) Reset() {
	a.sum = Init
}

// Accumulate folds one byte into the checksum.
func (a *Accumulator) Accumulate(b byte) {
	tmp := b ^ byte(a.sum&0xFF)
	tmp ^= tmp << 4
	a.sum = (a.sum >> 8) ^ (uint16(tmp) << 8) ^ (uint16(tmp) << 3) ^ (uint16(tmp) >> 4)
}

// AccumulateBytes folds a byte slice into the checksum.
func (a *Accumulator) AccumulateBytes(p []byte) {
	for _, b := range p {
		a.Accumulate(b)
	}
}

// Sum16 returns the current checksum value.
func (a *Accumulator) Sum16() uint16 {
	return a.sum
}

// Low returns the checksum's low byte, as placed first on the wire.
func (a *Accumulator) Low() byte {
	return byte(a.sum & 0xFF)
}

// High returns the checksum's high byte, as placed second on the wire.
func (a *Accumulator) High() byte {
	return byte(a.sum >> 8)
}

// FrameChecksum computes a full frame checksum: header bytes (excluding the
// start marker), then payload bytes, then the message's crc-extra seed byte.
// The accumulation order must match the sender bit-for-bit or every frame
// fails validation.
func FrameChecksum(header, payload []byte, crcExtra byte) uint16 {
	a := New()
	a.AccumulateBytes(header)
	a.AccumulateBytes(payload)
	a.Accumulate(crcExtra)
	return a.Sum16()
}
