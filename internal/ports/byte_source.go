package ports

import "context"

// ByteSource supplies raw telemetry bytes to the pipeline. Implementations
// wrap a serial port, a network socket, or a synthetic generator; the
// pipeline imposes no framing requirement on them, any chunking is fine.
type ByteSource interface {
	// Open prepares the source for reading.
	Open(ctx context.Context) error

	// Read fills p with whatever bytes are available, blocking until at
	// least one byte arrives, ctx is done, or the stream ends. It returns
	// the number of bytes read. io.EOF signals a finite source exhausted.
	Read(ctx context.Context, p []byte) (int, error)

	// Close releases the source's resources.
	Close() error
}
