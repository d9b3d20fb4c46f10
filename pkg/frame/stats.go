package frame

import "time"

// Stats is a point-in-time snapshot of decoder counters. Dropped-frame
// reasons are counted, never raised: checksum failures and unknown ids are
// an expected consequence of stream noise and dialect drift, not program
// errors. LastFrame is the wall clock of the most recent valid frame; the
// zero value means no frame has been decoded yet. Consumers use these to
// judge "no data" and "stale" states.
type Stats struct {
	Frames          uint64
	CRCFailures     uint64
	UnknownMessages uint64
	GarbageBytes    uint64
	LastFrame       time.Time
}

// Stats returns a snapshot of the decoder's counters. Safe to call from any
// goroutine while the producer keeps feeding.
func (d *Decoder) Stats() Stats {
	s := Stats{
		Frames:          d.frames.Load(),
		CRCFailures:     d.crcFailures.Load(),
		UnknownMessages: d.unknownMsgs.Load(),
		GarbageBytes:    d.garbage.Load(),
	}
	if ns := d.lastFrame.Load(); ns != 0 {
		s.LastFrame = time.Unix(0, ns)
	}
	return s
}
