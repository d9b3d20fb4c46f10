// Package udp provides a UDP byte source for receiving telemetry from a
// vehicle or ground radio.
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/gl-labs/groundlink/pkg/log"
)

// pollDeadline bounds each blocking read so ctx cancellation is noticed.
const pollDeadline = 500 * time.Millisecond

// maxDatagramLen is the largest payload a UDP datagram can carry. Datagrams
// are received into a buffer this size so nothing is truncated when the
// caller's slice is smaller.
const maxDatagramLen = 65535

// Source listens on a UDP port and hands received datagrams to the
// pipeline. Datagram boundaries carry no meaning; the frame decoder
// resynchronizes on its own markers.
type Source struct {
	addr   string
	conn   *net.UDPConn
	logger log.Logger

	buf     [maxDatagramLen]byte
	pending []byte
}

// NewSource creates a Source listening on addr (e.g. ":14550").
func NewSource(addr string, logger log.Logger) *Source {
	return &Source{addr: addr, logger: logger}
}

// Open binds the UDP socket.
func (s *Source) Open(ctx context.Context) error {
	laddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.conn = conn
	s.logger.Info("listening for telemetry", log.String("addr", s.addr))
	return nil
}

// Read blocks until a datagram arrives or ctx is done. A datagram larger
// than p is delivered across successive calls; the remainder is buffered,
// never dropped.
func (s *Source) Read(ctx context.Context, p []byte) (int, error) {
	if len(s.pending) > 0 {
		n := copy(p, s.pending)
		s.pending = s.pending[n:]
		return n, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := s.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
			return 0, err
		}
		n, _, err := s.conn.ReadFromUDP(s.buf[:])
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return 0, err
		}
		m := copy(p, s.buf[:n])
		if m < n {
			s.pending = s.buf[m:n]
		}
		return m, nil
	}
}

// Close releases the socket.
func (s *Source) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
