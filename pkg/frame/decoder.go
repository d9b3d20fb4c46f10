package frame

import (
	"sync/atomic"
	"time"

	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/log"
	"github.com/gl-labs/groundlink/pkg/x25"
)

type state int

const (
	stateIdle state = iota
	stateHeader
	statePayload
	stateChecksum
	stateSignature
)

// Decoder turns a raw byte stream into validated frames. Bytes may arrive in
// arbitrary chunk sizes; the decoder buffers partial frames between Feed
// calls and never blocks. A Decoder is owned by a single producer and is not
// safe for concurrent Feed calls; Stats may be read from any goroutine.
type Decoder struct {
	registry *dialect.Registry
	logger   log.Logger

	state   state
	format  Format
	header  [headerLenExtended]byte
	hdrLen  int
	payload []byte
	sum     [checksumLen]byte
	sumLen  int
	sigLeft int
	msg     *dialect.Message
	pending *Frame

	frames      atomic.Uint64
	crcFailures atomic.Uint64
	unknownMsgs atomic.Uint64
	garbage     atomic.Uint64
	lastFrame   atomic.Int64
}

// NewDecoder creates a Decoder reading message definitions from registry.
// The registry may be reloaded at any time; each frame is validated against
// the schema published when its header was parsed.
func NewDecoder(registry *dialect.Registry, logger log.Logger) *Decoder {
	return &Decoder{
		registry: registry,
		logger:   logger,
		payload:  make([]byte, 0, 255),
	}
}

// Feed consumes a chunk of the byte stream and returns every frame completed
// by it. Partial frames stay buffered until more bytes arrive. Feeding a
// stream byte-by-byte yields the same frames as feeding it whole.
func (d *Decoder) Feed(p []byte) []Frame {
	var out []Frame
	for _, b := range p {
		if f := d.step(b); f != nil {
			out = append(out, *f)
		}
	}
	return out
}

func (d *Decoder) step(b byte) *Frame {
	switch d.state {
	case stateIdle:
		switch b {
		case MarkerLegacy:
			d.begin(FormatLegacy)
		case MarkerExtended:
			d.begin(FormatExtended)
		default:
			d.garbage.Add(1)
		}
		return nil

	case stateHeader:
		d.header[d.hdrLen] = b
		d.hdrLen++
		if d.hdrLen == d.headerLen() {
			d.parseHeader()
		}
		return nil

	case statePayload:
		d.payload = append(d.payload, b)
		if len(d.payload) == int(d.header[0]) {
			d.state = stateChecksum
		}
		return nil

	case stateChecksum:
		d.sum[d.sumLen] = b
		d.sumLen++
		if d.sumLen == checksumLen {
			return d.finish()
		}
		return nil

	case stateSignature:
		d.sigLeft--
		if d.sigLeft == 0 {
			f := d.pending
			d.pending = nil
			d.state = stateIdle
			return f
		}
		return nil

	default:
		d.state = stateIdle
		return nil
	}
}

func (d *Decoder) begin(f Format) {
	d.format = f
	d.hdrLen = 0
	d.payload = d.payload[:0]
	d.sumLen = 0
	d.sigLeft = 0
	d.msg = nil
	d.pending = nil
	d.state = stateHeader
}

func (d *Decoder) headerLen() int {
	if d.format == FormatExtended {
		return headerLenExtended
	}
	return headerLenLegacy
}

// parseHeader runs once the fixed-size header is complete. The length byte
// determines how many payload bytes to expect. An unknown message id is
// still length-consumed so the stream stays synchronized; the frame is
// discarded after the checksum bytes instead of being surfaced.
func (d *Decoder) parseHeader() {
	var id uint32
	if d.format == FormatExtended {
		id = uint32(d.header[6]) | uint32(d.header[7])<<8 | uint32(d.header[8])<<16
		if d.header[1]&incompatFlagSigned != 0 {
			d.sigLeft = signatureLen
		}
	} else {
		id = uint32(d.header[4])
	}

	if schema := d.registry.Schema(); schema != nil {
		d.msg, _ = schema.MessageByID(id)
	}

	if d.header[0] == 0 {
		d.state = stateChecksum
	} else {
		d.state = statePayload
	}
}

// finish validates the received checksum against a recomputation seeded with
// the message's crc-extra. On any failure the decoder re-enters Idle and
// resynchronizes by scanning forward from the next byte.
func (d *Decoder) finish() *Frame {
	if d.msg == nil {
		d.unknownMsgs.Add(1)
		d.discard()
		return nil
	}

	want := x25.FrameChecksum(d.header[:d.hdrLen], d.payload, d.msg.CRCExtra)
	if d.sum[0] != byte(want&0xFF) || d.sum[1] != byte(want>>8) {
		d.crcFailures.Add(1)
		d.logger.Debug("frame checksum mismatch",
			log.Uint64("message_id", uint64(d.msg.ID)),
			log.String("format", d.format.String()))
		d.discard()
		return nil
	}

	f := &Frame{
		Format:    d.format,
		MessageID: d.msg.ID,
		Payload:   append([]byte(nil), d.payload...),
	}
	if d.format == FormatExtended {
		f.Seq = d.header[3]
		f.SystemID = d.header[4]
		f.ComponentID = d.header[5]
	} else {
		f.Seq = d.header[1]
		f.SystemID = d.header[2]
		f.ComponentID = d.header[3]
	}

	d.frames.Add(1)
	d.lastFrame.Store(time.Now().UnixNano())

	if d.sigLeft > 0 {
		// Signature trails the checksum; hold the frame until it is consumed.
		d.pending = f
		d.state = stateSignature
		return nil
	}
	d.state = stateIdle
	return f
}

// discard drops the current frame but still consumes a trailing signature if
// the header announced one, so subsequent parsing stays aligned.
func (d *Decoder) discard() {
	if d.sigLeft > 0 {
		d.pending = nil
		d.state = stateSignature
		return
	}
	d.state = stateIdle
}
