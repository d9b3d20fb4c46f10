package frame

import (
	"bytes"
	"testing"

	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/log"
	"github.com/gl-labs/groundlink/pkg/x25"
)

const testDialect = `
[[message]]
id = 0
name = "HEARTBEAT"

[[message.field]]
name = "type"
type = "uint8_t"

[[message.field]]
name = "autopilot"
type = "uint8_t"

[[message.field]]
name = "base_mode"
type = "uint8_t"

[[message.field]]
name = "custom_mode"
type = "uint32_t"

[[message.field]]
name = "system_status"
type = "uint8_t"

[[message.field]]
name = "mavlink_version"
type = "uint8_t"
`

var heartbeatPayload = []byte{0x00, 0x00, 0x00, 0x00, 0x02, 0x03, 0x80, 0x03, 0x03}

func testRegistry(t *testing.T) *dialect.Registry {
	t.Helper()
	reg := dialect.NewRegistry()
	if _, err := reg.Load(dialect.Document{Name: "test", Data: []byte(testDialect)}); err != nil {
		t.Fatalf("load dialect: %v", err)
	}
	return reg
}

func crcExtra(t *testing.T, reg *dialect.Registry, id uint32) byte {
	t.Helper()
	msg, ok := reg.Schema().MessageByID(id)
	if !ok {
		t.Fatalf("message %d not in test dialect", id)
	}
	return msg.CRCExtra
}

// buildLegacy assembles a legacy-format frame: marker, 5-byte header,
// payload, checksum low/high.
func buildLegacy(seq, sysid, compid byte, msgid byte, payload []byte, extra byte) []byte {
	header := []byte{byte(len(payload)), seq, sysid, compid, msgid}
	sum := x25.FrameChecksum(header, payload, extra)

	var buf bytes.Buffer
	buf.WriteByte(MarkerLegacy)
	buf.Write(header)
	buf.Write(payload)
	buf.WriteByte(byte(sum & 0xFF))
	buf.WriteByte(byte(sum >> 8))
	return buf.Bytes()
}

// buildExtended assembles an extended-format frame, optionally with a
// trailing 13-byte signature.
func buildExtended(seq, sysid, compid byte, msgid uint32, payload []byte, extra byte, signed bool) []byte {
	var incompat byte
	if signed {
		incompat = incompatFlagSigned
	}
	header := []byte{
		byte(len(payload)), incompat, 0, seq, sysid, compid,
		byte(msgid & 0xFF), byte(msgid >> 8 & 0xFF), byte(msgid >> 16 & 0xFF),
	}
	sum := x25.FrameChecksum(header, payload, extra)

	var buf bytes.Buffer
	buf.WriteByte(MarkerExtended)
	buf.Write(header)
	buf.Write(payload)
	buf.WriteByte(byte(sum & 0xFF))
	buf.WriteByte(byte(sum >> 8))
	if signed {
		buf.Write(make([]byte, 13))
	}
	return buf.Bytes()
}

func TestDecodeSingleLegacyFrame(t *testing.T) {
	reg := testRegistry(t)
	dec := NewDecoder(reg, log.NewNoopLogger())

	stream := buildLegacy(0, 1, 1, 0, heartbeatPayload, crcExtra(t, reg, 0))
	frames := dec.Feed(stream)

	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	f := frames[0]
	if f.Format != FormatLegacy {
		t.Errorf("expected legacy format, got %v", f.Format)
	}
	if f.Seq != 0 || f.SystemID != 1 || f.ComponentID != 1 || f.MessageID != 0 {
		t.Errorf("unexpected header fields: %+v", f)
	}
	if !bytes.Equal(f.Payload, heartbeatPayload) {
		t.Errorf("payload mismatch: %x", f.Payload)
	}

	stats := dec.Stats()
	if stats.Frames != 1 || stats.CRCFailures != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.LastFrame.IsZero() {
		t.Error("LastFrame not recorded")
	}
}

func TestCorruptPayloadRejected(t *testing.T) {
	reg := testRegistry(t)
	extra := crcExtra(t, reg, 0)
	valid := buildLegacy(0, 1, 1, 0, heartbeatPayload, extra)

	// Corrupting any single byte before the checksum must yield zero frames.
	for i := 1; i < len(valid)-2; i++ {
		dec := NewDecoder(reg, log.NewNoopLogger())
		mut := append([]byte(nil), valid...)
		mut[i] ^= 0x01
		if frames := dec.Feed(mut); len(frames) != 0 {
			t.Fatalf("corrupted byte %d still produced %d frames", i, len(frames))
		}
	}
}

func TestChunkingInvariance(t *testing.T) {
	reg := testRegistry(t)
	extra := crcExtra(t, reg, 0)

	var stream []byte
	for i := 0; i < 5; i++ {
		stream = append(stream, buildLegacy(byte(i), 1, 1, 0, heartbeatPayload, extra)...)
	}

	whole := NewDecoder(reg, log.NewNoopLogger())
	wholeFrames := whole.Feed(stream)

	split := NewDecoder(reg, log.NewNoopLogger())
	var splitFrames []Frame
	for _, b := range stream {
		splitFrames = append(splitFrames, split.Feed([]byte{b})...)
	}

	if len(wholeFrames) != 5 || len(splitFrames) != 5 {
		t.Fatalf("expected 5 frames both ways, got %d and %d", len(wholeFrames), len(splitFrames))
	}
	for i := range wholeFrames {
		if wholeFrames[i].Seq != splitFrames[i].Seq || !bytes.Equal(wholeFrames[i].Payload, splitFrames[i].Payload) {
			t.Fatalf("frame %d differs between whole and split feeds", i)
		}
	}
}

func TestGarbageResynchronization(t *testing.T) {
	reg := testRegistry(t)
	extra := crcExtra(t, reg, 0)

	garbage := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	var stream []byte
	stream = append(stream, garbage...)
	stream = append(stream, buildLegacy(1, 1, 1, 0, heartbeatPayload, extra)...)
	stream = append(stream, garbage...)
	stream = append(stream, buildLegacy(2, 1, 1, 0, heartbeatPayload, extra)...)
	stream = append(stream, garbage...)

	dec := NewDecoder(reg, log.NewNoopLogger())
	frames := dec.Feed(stream)

	if len(frames) != 2 {
		t.Fatalf("expected exactly 2 frames, got %d", len(frames))
	}
	if frames[0].Seq != 1 || frames[1].Seq != 2 {
		t.Errorf("unexpected frame sequence: %d, %d", frames[0].Seq, frames[1].Seq)
	}
	if dec.Stats().GarbageBytes != uint64(3*len(garbage)) {
		t.Errorf("expected %d garbage bytes, got %d", 3*len(garbage), dec.Stats().GarbageBytes)
	}
}

func TestUnknownMessageStaysSynchronized(t *testing.T) {
	reg := testRegistry(t)
	extra := crcExtra(t, reg, 0)

	// An unknown id must be length-consumed and discarded, and must not
	// desynchronize the valid frame immediately after it.
	unknown := buildLegacy(0, 1, 1, 42, []byte{0xAA, 0xBB, 0xCC}, 99)
	valid := buildLegacy(1, 1, 1, 0, heartbeatPayload, extra)

	dec := NewDecoder(reg, log.NewNoopLogger())
	frames := dec.Feed(append(unknown, valid...))

	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Seq != 1 {
		t.Errorf("expected the valid frame, got seq %d", frames[0].Seq)
	}
	stats := dec.Stats()
	if stats.UnknownMessages != 1 {
		t.Errorf("expected 1 unknown message, got %d", stats.UnknownMessages)
	}
	if stats.GarbageBytes != 0 {
		t.Errorf("unknown frame bytes must not count as garbage, got %d", stats.GarbageBytes)
	}
}

func TestExtendedFrame(t *testing.T) {
	reg := testRegistry(t)
	dec := NewDecoder(reg, log.NewNoopLogger())

	stream := buildExtended(7, 1, 1, 0, heartbeatPayload, crcExtra(t, reg, 0), false)
	frames := dec.Feed(stream)

	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	f := frames[0]
	if f.Format != FormatExtended || f.Seq != 7 || f.MessageID != 0 {
		t.Errorf("unexpected frame: %+v", f)
	}
}

func TestSignedExtendedFrameConsumesSignature(t *testing.T) {
	reg := testRegistry(t)
	extra := crcExtra(t, reg, 0)

	signed := buildExtended(3, 1, 1, 0, heartbeatPayload, extra, true)
	follow := buildLegacy(4, 1, 1, 0, heartbeatPayload, extra)

	dec := NewDecoder(reg, log.NewNoopLogger())
	frames := dec.Feed(append(signed, follow...))

	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Seq != 3 || frames[1].Seq != 4 {
		t.Errorf("unexpected sequence order: %d, %d", frames[0].Seq, frames[1].Seq)
	}
	if dec.Stats().GarbageBytes != 0 {
		t.Errorf("signature bytes leaked into garbage count: %d", dec.Stats().GarbageBytes)
	}
}

func TestInterleavedFormats(t *testing.T) {
	reg := testRegistry(t)
	extra := crcExtra(t, reg, 0)

	var stream []byte
	stream = append(stream, buildLegacy(0, 1, 1, 0, heartbeatPayload, extra)...)
	stream = append(stream, buildExtended(1, 1, 1, 0, heartbeatPayload, extra, false)...)
	stream = append(stream, buildLegacy(2, 1, 1, 0, heartbeatPayload, extra)...)

	dec := NewDecoder(reg, log.NewNoopLogger())
	frames := dec.Feed(stream)

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	wantFormats := []Format{FormatLegacy, FormatExtended, FormatLegacy}
	for i, f := range frames {
		if f.Format != wantFormats[i] {
			t.Errorf("frame %d: expected %v, got %v", i, wantFormats[i], f.Format)
		}
	}
}

func TestNoSchemaPublished(t *testing.T) {
	reg := dialect.NewRegistry()
	dec := NewDecoder(reg, log.NewNoopLogger())

	stream := buildLegacy(0, 1, 1, 0, heartbeatPayload, 50)
	if frames := dec.Feed(stream); len(frames) != 0 {
		t.Fatalf("decoder with no schema produced %d frames", len(frames))
	}
	if dec.Stats().UnknownMessages != 1 {
		t.Errorf("expected 1 unknown message, got %d", dec.Stats().UnknownMessages)
	}
}
