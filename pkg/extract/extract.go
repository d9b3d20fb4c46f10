package extract

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/frame"
	"github.com/gl-labs/groundlink/pkg/log"
)

// Value is one decoded scalar: a field key ("MESSAGE.field", with a ".<i>"
// suffix for array elements), a wall-clock timestamp, and the numeric value.
// Values are transient; the time-series store is their destination.
type Value struct {
	Key   string
	Time  time.Time
	Value float64
}

// Extractor maps a decoded frame's payload bytes to named field values per
// the active dialect. It is stateless aside from its logger.
type Extractor struct {
	logger log.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger log.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract produces one Value per scalar field of the frame, expanding arrays
// to one value per element. Fields whose byte range falls outside the
// received payload indicate a dialect/frame mismatch: they are skipped with
// a diagnostic while sibling fields still decode. Extract never fails.
func (e *Extractor) Extract(f frame.Frame, msg *dialect.Message, ts time.Time) []Value {
	out := make([]Value, 0, len(msg.Fields))
	for _, fd := range msg.Fields {
		size := fd.Type.Size()
		for i := 0; i < fd.Count; i++ {
			off := fd.Offset + i*size
			if off+size > len(f.Payload) {
				e.logger.Debug("field exceeds payload, skipping",
					log.String("message", msg.Name),
					log.String("field", fd.Name),
					log.Int("offset", off),
					log.Int("payload_len", len(f.Payload)))
				break
			}

			key := dialect.FieldKey(msg.Name, fd.Name)
			if fd.Count > 1 {
				key = dialect.ElementKey(msg.Name, fd.Name, i)
			}
			out = append(out, Value{
				Key:   key,
				Time:  ts,
				Value: decodeElement(fd.Type, f.Payload[off:off+size]),
			})
		}
	}
	return out
}

// decodeElement reinterprets size bytes per the field's primitive type,
// using the wire's little-endian convention.
func decodeElement(t dialect.FieldType, b []byte) float64 {
	switch t {
	case dialect.TypeUint8, dialect.TypeChar:
		return float64(b[0])
	case dialect.TypeInt8:
		return float64(int8(b[0]))
	case dialect.TypeUint16:
		return float64(binary.LittleEndian.Uint16(b))
	case dialect.TypeInt16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case dialect.TypeUint32:
		return float64(binary.LittleEndian.Uint32(b))
	case dialect.TypeInt32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case dialect.TypeUint64:
		return float64(binary.LittleEndian.Uint64(b))
	case dialect.TypeInt64:
		return float64(int64(binary.LittleEndian.Uint64(b)))
	case dialect.TypeFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case dialect.TypeDouble:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		return 0
	}
}
