package rivulet

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rivulet/rivulet/ers"
)

const (
	// ErrSourceBusy is returned when acquiring a reader on a byte
	// source that is already locked to another reader.
	ErrSourceBusy ers.Error = "byte source is locked"

	// ErrRegionUnsupported is returned by RegionReader when a byte
	// source cannot read into caller-supplied storage. NewBytesReuse
	// treats it as the signal to fall back to the default strategy.
	ErrRegionUnsupported ers.Error = "byte source does not support region reads"
)

// DefaultChunkSize is the allocation size for default-strategy reads
// against sources that do not produce their own chunks.
const DefaultChunkSize = 4096

// ReaderControl carries the lifecycle operations shared by both
// reader strategies. Cancel tells the producer that no further
// output is wanted, with an optional reason; Release returns the
// source's lock. Only the release wrapper inside Bytes calls either.
type ReaderControl interface {
	Cancel(reason error) error
	Release()
}

// ChunkReader is the default reading strategy: every call returns a
// freshly-produced chunk owned by the caller, and io.EOF reports
// completion.
type ChunkReader interface {
	ReaderControl
	ReadChunk(ctx context.Context) ([]byte, error)
}

// RegionReader is the buffer-reuse reading strategy: the caller
// supplies the destination region and the reader writes into
// region[off:]. The returned slice is the region actually holding
// the data, which MAY be backed by different storage than the one
// passed in when the source swaps buffers to avoid a copy; in that
// case the bytes below off are preserved in the returned region.
// The int result is the count of bytes written at off.
type RegionReader interface {
	ReaderControl
	Fill(ctx context.Context, region []byte, off int) ([]byte, int, error)
}

// ByteSource is a byte-oriented producer with an exclusive reader
// lock. Acquiring a reader locks the source; a second acquisition
// fails with ErrSourceBusy until the first reader is released.
// Sources that cannot write into caller-supplied storage return
// ErrRegionUnsupported from RegionReader.
type ByteSource interface {
	Reader() (ChunkReader, error)
	RegionReader() (RegionReader, error)
	Locked() bool
}

// IOSource adapts any io.Reader into a ByteSource. The source is
// region-capable. Cancelling the reader closes the underlying reader
// when it implements io.Closer.
func IOSource(rd io.Reader) ByteSource { return &ioSource{rd: rd, chunkSize: DefaultChunkSize} }

// IOSourceChunked is IOSource with an explicit allocation size for
// default-strategy reads.
func IOSourceChunked(rd io.Reader, chunkSize int) ByteSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ioSource{rd: rd, chunkSize: chunkSize}
}

type ioSource struct {
	mu        sync.Mutex
	rd        io.Reader
	locked    bool
	chunkSize int
}

func (s *ioSource) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return ErrSourceBusy
	}
	s.locked = true
	return nil
}

func (s *ioSource) Reader() (ChunkReader, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	return &ioReader{src: s}, nil
}

func (s *ioSource) RegionReader() (RegionReader, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	return &ioReader{src: s}, nil
}

func (s *ioSource) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *ioSource) unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
}

// ioReader implements both reading strategies over the wrapped
// io.Reader.
type ioReader struct {
	src *ioSource
	eof bool
}

func (r *ioReader) ReadChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.eof {
		return nil, io.EOF
	}

	buf := make([]byte, r.src.chunkSize)
	for {
		n, err := r.src.rd.Read(buf)
		switch {
		case n > 0:
			if errors.Is(err, io.EOF) {
				r.eof = true
			} else if err != nil {
				return nil, err
			}
			return buf[:n], nil
		case err != nil:
			return nil, err
		}
		// n == 0 with a nil error is allowed by the io.Reader
		// contract; retry rather than yield an empty chunk.
	}
}

func (r *ioReader) Fill(ctx context.Context, region []byte, off int) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return region, 0, err
	}
	if r.eof {
		return region, 0, io.EOF
	}

	n, err := r.src.rd.Read(region[off:])
	if errors.Is(err, io.EOF) {
		r.eof = true
	}
	return region, n, err
}

func (r *ioReader) Cancel(error) error {
	if closer, ok := r.src.rd.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (r *ioReader) Release() { r.src.unlock() }

// ChunkSource builds a ByteSource from a chunk-producing pull
// function, with no region-read support: buffer-reuse adapters over
// a ChunkSource degrade to the default strategy. The optional cancel
// function observes the reason the reader was cancelled.
func ChunkSource(pull func(context.Context) ([]byte, error), cancel func(error) error) ByteSource {
	return &chunkSource{pull: pull, cancel: cancel}
}

type chunkSource struct {
	mu     sync.Mutex
	locked bool
	pull   func(context.Context) ([]byte, error)
	cancel func(error) error
}

func (s *chunkSource) Reader() (ChunkReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return nil, ErrSourceBusy
	}
	s.locked = true
	return &chunkSourceReader{src: s}, nil
}

func (s *chunkSource) RegionReader() (RegionReader, error) { return nil, ErrRegionUnsupported }

func (s *chunkSource) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

type chunkSourceReader struct{ src *chunkSource }

func (r *chunkSourceReader) ReadChunk(ctx context.Context) ([]byte, error) { return r.src.pull(ctx) }

func (r *chunkSourceReader) Cancel(reason error) error {
	if r.src.cancel != nil {
		return r.src.cancel(reason)
	}
	return nil
}

func (r *chunkSourceReader) Release() {
	r.src.mu.Lock()
	defer r.src.mu.Unlock()
	r.src.locked = false
}

// Bytes adapts a ByteSource into the pull-based sequence model, in
// one of two reading strategies. The default strategy (NewBytes)
// yields source-produced chunks verbatim through Stream. The
// buffer-reuse strategy (NewBytesReuse) lets the consumer supply the
// destination region per read cycle, via Fill and FillSize, with
// partial reads accumulated until the region is full or the source
// ends.
//
// A Bytes instance owns at most one underlying reader, acquired at
// construction, and the source stays locked to it until release. The
// release action runs exactly once on any exit path: exhaustion,
// failure, or early termination via Close. On failure the reader is
// cancelled with the failure as the reason; on a clean exit it is
// cancelled with no reason; in both cases cancellation errors are
// suppressed and the source is unlocked afterward if it still
// reports itself locked.
type Bytes struct {
	src      ByteSource
	chunks   ChunkReader
	region   RegionReader
	fallback bool

	rest    []byte
	eof     bool
	failure error
	release sync.Once
}

// NewBytes acquires a default-strategy reader on the source. It
// fails with ErrSourceBusy when the source is already locked.
func NewBytes(src ByteSource) (*Bytes, error) {
	chunks, err := src.Reader()
	if err != nil {
		return nil, err
	}
	return &Bytes{src: src, chunks: chunks}, nil
}

// NewBytesReuse acquires a buffer-reuse reader on the source. When
// the source cannot provide one (ErrRegionUnsupported, caught here
// at acquisition) the adapter degrades to the default strategy for
// its entire lifetime: Fill and FillSize still work, filled from
// source-produced chunks through an internal remainder buffer.
func NewBytesReuse(src ByteSource) (*Bytes, error) {
	region, err := src.RegionReader()
	switch {
	case err == nil:
		return &Bytes{src: src, region: region}, nil
	case errors.Is(err, ErrRegionUnsupported):
		chunks, err := src.Reader()
		if err != nil {
			return nil, err
		}
		return &Bytes{src: src, chunks: chunks, fallback: true}, nil
	default:
		return nil, err
	}
}

// Fallback reports whether a buffer-reuse adapter degraded to the
// default strategy at acquisition.
func (b *Bytes) Fallback() bool { return b.fallback }

func (b *Bytes) control() ReaderControl {
	if b.region != nil {
		return b.region
	}
	return b.chunks
}

// releaseNow is the single place reader cleanup lives. Reader
// strategies never release themselves.
func (b *Bytes) releaseNow() {
	b.release.Do(func() {
		rd := b.control()
		if rd == nil {
			return
		}

		// best effort: a failed cancel never masks the primary
		// outcome
		_ = rd.Cancel(b.failure)
		if b.src.Locked() {
			rd.Release()
		}
	})
}

// Close releases the underlying reader and unlocks the source. It is
// how a consumer abandons the adapter before exhaustion, and is safe
// to call at any point and more than once.
func (b *Bytes) Close() error { b.releaseNow(); return nil }

// Stream exposes the adapter as a stream of chunks. In the default
// strategy every pull issues one read and yields the produced chunk
// verbatim; in buffer-reuse mode pulls read DefaultChunkSize-sized
// regions. Closing the stream (or exhausting it, or a read failure)
// releases the reader.
func (b *Bytes) Stream() *Stream[[]byte] {
	return MakeStream(func(ctx context.Context) ([]byte, error) {
		if b.region != nil {
			return b.fillRegion(ctx, make([]byte, DefaultChunkSize))
		}
		return b.readChunk(ctx)
	}).WithHook(func(*Stream[[]byte]) { b.releaseNow() })
}

func (b *Bytes) readChunk(ctx context.Context) ([]byte, error) {
	if len(b.rest) > 0 {
		chunk := b.rest
		b.rest = nil
		return chunk, nil
	}
	if b.eof {
		return nil, io.EOF
	}

	chunk, err := b.chunks.ReadChunk(ctx)
	switch {
	case err == nil:
		return chunk, nil
	case errors.Is(err, io.EOF):
		b.eof = true
		b.releaseNow()
		return nil, io.EOF
	case ers.IsExpiredContext(err):
		return nil, err
	default:
		b.failure = err
		b.releaseNow()
		return nil, err
	}
}

// FillSize allocates a fresh region of n bytes and fills it. See
// Fill.
func (b *Bytes) FillSize(ctx context.Context, n int) ([]byte, error) {
	if n == 0 {
		return b.Fill(ctx, nil)
	}
	return b.Fill(ctx, make([]byte, n))
}

// Fill reads into the supplied region until it is full or the source
// ends, and returns the region trimmed to the bytes actually
// filled. Partial reads accumulate across as many underlying reads
// as needed: the consumer never observes a partially-filled region
// mid-cycle. When the source ends mid-fill the short region is
// returned with a nil error, and the next call reports io.EOF. A
// zero-length region is a valid request for an empty result and does
// not touch the source. A source failure aborts the cycle with no
// partial region and releases the reader.
//
// The returned region's backing storage may differ from buf's when
// the source swaps storage during a region read.
func (b *Bytes) Fill(ctx context.Context, buf []byte) ([]byte, error) {
	if b.eof && len(b.rest) == 0 {
		return nil, io.EOF
	}
	if len(buf) == 0 {
		return buf[:0:0], nil
	}

	if b.region == nil {
		return b.fillFromChunks(ctx, buf)
	}
	return b.fillRegion(ctx, buf)
}

// fillRegion is the buffer-reuse accumulation cycle: a bounded loop
// over (offset, target) that keeps reading into the unfilled portion
// of whatever region the source last handed back.
func (b *Bytes) fillRegion(ctx context.Context, buf []byte) ([]byte, error) {
	if b.eof {
		return nil, io.EOF
	}

	region := buf
	target := len(buf)
	off := 0

	for off < target {
		next, n, err := b.region.Fill(ctx, region, off)
		if next != nil {
			// the source may hand back replacement storage;
			// subsequent reads continue into it, not into the
			// originally requested buffer
			region = next
		}
		off += n

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			b.eof = true
			b.releaseNow()
			if off == 0 {
				return nil, io.EOF
			}
			return region[:off], nil
		case ers.IsExpiredContext(err):
			return nil, err
		default:
			b.failure = err
			b.releaseNow()
			return nil, err
		}
	}

	return region[:target], nil
}

// fillFromChunks services Fill in the default and fallback
// strategies by copying from source-produced chunks; bytes beyond
// the requested region carry over to the next cycle.
func (b *Bytes) fillFromChunks(ctx context.Context, buf []byte) ([]byte, error) {
	target := len(buf)
	off := 0

	for off < target {
		if len(b.rest) > 0 {
			n := copy(buf[off:], b.rest)
			b.rest = b.rest[n:]
			off += n
			continue
		}

		if b.eof {
			// leftover bytes drained after the source ended
			if off == 0 {
				return nil, io.EOF
			}
			return buf[:off], nil
		}

		chunk, err := b.chunks.ReadChunk(ctx)
		switch {
		case err == nil:
			b.rest = chunk
		case errors.Is(err, io.EOF):
			b.eof = true
			b.releaseNow()
			if off == 0 {
				return nil, io.EOF
			}
			return buf[:off], nil
		case ers.IsExpiredContext(err):
			return nil, err
		default:
			b.failure = err
			b.releaseNow()
			return nil, err
		}
	}

	return buf, nil
}
