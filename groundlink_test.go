package groundlink_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gl-labs/groundlink"
	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/frame"
	"github.com/gl-labs/groundlink/pkg/x25"
)

const testDialect = `
[[message]]
id = 12
name = "ALTITUDE"

[[message.field]]
name = "relative"
type = "float"

[[message.field]]
name = "source"
type = "uint8_t"
`

// memSource replays a byte slice, then reports EOF.
type memSource struct {
	mu   sync.Mutex
	data []byte
	pos  int
}

func (s *memSource) Open(ctx context.Context) error { return nil }

func (s *memSource) Read(ctx context.Context, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *memSource) Close() error { return nil }

func testDocument() dialect.Document {
	return dialect.Document{Name: "test", Data: []byte(testDialect)}
}

// buildAltitudeFrame assembles a legacy-format ALTITUDE frame carrying
// relative=1.5, source=3.
func buildAltitudeFrame(t *testing.T, extra byte) []byte {
	t.Helper()

	// float32 1.5 is 0x3FC00000, little-endian on the wire.
	payload := []byte{0x00, 0x00, 0xC0, 0x3F, 0x03}
	header := []byte{byte(len(payload)), 0, 1, 1, 12}
	sum := x25.FrameChecksum(header, payload, extra)

	var buf bytes.Buffer
	buf.WriteByte(frame.MarkerLegacy)
	buf.Write(header)
	buf.Write(payload)
	buf.WriteByte(byte(sum & 0xFF))
	buf.WriteByte(byte(sum >> 8))
	return buf.Bytes()
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := groundlink.DefaultConfig()
	cfg.TargetPoints = 1

	if _, err := groundlink.New(cfg); !errors.Is(err, groundlink.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestStart_WithoutDialect(t *testing.T) {
	gl, err := groundlink.New(groundlink.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = gl.Start(context.Background(), &memSource{})
	if !errors.Is(err, groundlink.ErrNoDialect) {
		t.Fatalf("Start() error = %v, want ErrNoDialect", err)
	}
}

func TestStop_NotRunning(t *testing.T) {
	gl, err := groundlink.New(groundlink.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := gl.Stop(); !errors.Is(err, groundlink.ErrNotRunning) {
		t.Fatalf("Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestEndToEnd(t *testing.T) {
	gl, err := groundlink.New(groundlink.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := gl.LoadDialect(testDocument()); err != nil {
		t.Fatalf("LoadDialect() error = %v", err)
	}

	msg, ok := gl.Registry().Schema().MessageByID(12)
	if !ok {
		t.Fatal("ALTITUDE missing from schema")
	}

	src := &memSource{data: buildAltitudeFrame(t, msg.CRCExtra)}
	if err := gl.Start(context.Background(), src); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// The producer drains the source and then idles in StateRunning;
	// poll the store for the decoded sample.
	deadline := time.After(2 * time.Second)
	for {
		if s, ok := gl.Store().Latest("ALTITUDE.relative"); ok {
			if s.Value != 1.5 {
				t.Errorf("relative = %v, want 1.5", s.Value)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("sample never reached the store")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if stats := gl.Stats(); stats.Frames != 1 {
		t.Errorf("Frames = %d, want 1", stats.Frames)
	}

	if err := gl.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if gl.State() != groundlink.StateStopped {
		t.Errorf("State() = %v after Stop, want StateStopped", gl.State())
	}
}

func TestStart_Twice(t *testing.T) {
	gl, err := groundlink.New(groundlink.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := gl.LoadDialect(testDocument()); err != nil {
		t.Fatalf("LoadDialect() error = %v", err)
	}

	// The producer exits once the empty source reports EOF, but the
	// instance reports Running until stopped.
	if err := gl.Start(context.Background(), &memSource{data: make([]byte, 0)}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer gl.Stop()

	if err := gl.Start(context.Background(), &memSource{}); !errors.Is(err, groundlink.ErrAlreadyRunning) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyRunning", err)
	}
}
