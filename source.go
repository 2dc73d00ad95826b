package filesig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ByteSource is bounded random access over some content. Every detector
// reads through this interface.
//
// Read returns up to maxLength bytes starting at offset. It returns fewer
// bytes when the content is shorter and an empty slice when offset is at or
// past the end; running off the end is never an error. A negative offset or
// maxLength fails with ErrOutOfRange.
//
// Identification rejects a nil source, including nil pointers to the source
// types of this package, with ErrInvalidArgument. Other implementations
// must not be passed as nil pointers.
type ByteSource interface {
	// Len returns the total content size in bytes.
	Len() int64

	// Read returns the bytes available at offset, up to maxLength.
	Read(offset int64, maxLength int) ([]byte, error)
}

// checkRead validates Read arguments and returns how many bytes can be read.
func checkRead(op string, size, offset int64, maxLength int) (int, error) {
	if offset < 0 {
		return 0, outOfRange(op, "offset", offset)
	}
	if maxLength < 0 {
		return 0, outOfRange(op, "length", int64(maxLength))
	}
	if offset >= size {
		return 0, nil
	}
	if left := size - offset; left < int64(maxLength) {
		return int(left), nil
	}
	return maxLength, nil
}

// ============================================================================
// In-memory source
// ============================================================================

// BytesSource is a ByteSource over an in-memory buffer. It is safe for
// concurrent use as long as the caller does not modify the buffer.
type BytesSource struct {
	data []byte
}

// NewBytesSource wraps data. The slice is not copied.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

// Len returns the buffer length.
func (s *BytesSource) Len() int64 {
	return int64(len(s.data))
}

// Read returns a copy of the requested window.
func (s *BytesSource) Read(offset int64, maxLength int) ([]byte, error) {
	n, err := checkRead("read bytes", int64(len(s.data)), offset, maxLength)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	out := make([]byte, n)
	copy(out, s.data[offset:offset+int64(n)])
	return out, nil
}

// ============================================================================
// Stream source
// ============================================================================

// StreamSource is a ByteSource over a seekable stream. Every Read moves the
// stream position, so the stream must not be used by anything else while
// the source is in use.
type StreamSource struct {
	mu     sync.Mutex
	stream io.ReadSeeker
	size   int64
}

// NewStreamSource wraps stream. The content length is taken by seeking to
// the end once.
func NewStreamSource(stream io.ReadSeeker) (*StreamSource, error) {
	if stream == nil {
		return nil, invalidArgument("new stream source", "stream")
	}
	size, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to determine stream length: %w", err)
	}
	return &StreamSource{stream: stream, size: size}, nil
}

// Len returns the stream length determined at construction.
func (s *StreamSource) Len() int64 {
	return s.size
}

// Read seeks to offset and reads up to maxLength bytes. A stream that
// delivers fewer bytes than its length promised yields a truncated result.
func (s *StreamSource) Read(offset int64, maxLength int) ([]byte, error) {
	n, err := checkRead("read stream", s.size, offset, maxLength)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stream.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek stream to %d: %w", offset, err)
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.stream, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read stream at %d: %w", offset, err)
	}
	return buf[:read], nil
}

// ============================================================================
// ReaderAt and file sources
// ============================================================================

// ReaderAtSource is a ByteSource over an io.ReaderAt of known size. ReadAt
// does not share a position, so the source is safe for concurrent use when
// the underlying ReaderAt is.
type ReaderAtSource struct {
	r    io.ReaderAt
	size int64
}

// NewReaderAtSource wraps r, which holds size bytes.
func NewReaderAtSource(r io.ReaderAt, size int64) (*ReaderAtSource, error) {
	if r == nil {
		return nil, invalidArgument("new reader source", "reader")
	}
	if size < 0 {
		return nil, outOfRange("new reader source", "size", size)
	}
	return &ReaderAtSource{r: r, size: size}, nil
}

// Len returns the size given at construction.
func (s *ReaderAtSource) Len() int64 {
	return s.size
}

// Read reads up to maxLength bytes at offset, truncating on early EOF.
func (s *ReaderAtSource) Read(offset int64, maxLength int) ([]byte, error) {
	n, err := checkRead("read at", s.size, offset, maxLength)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	read, err := s.r.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read at %d: %w", offset, err)
	}
	return buf[:read], nil
}

// FileSource is a ReaderAtSource over an open file.
type FileSource struct {
	*ReaderAtSource
	file *os.File
}

// OpenFile opens path for reading. The caller must Close the returned
// source.
func OpenFile(path string) (*FileSource, error) {
	if path == "" {
		return nil, invalidArgument("open file", "path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, &ArgumentError{Op: "open file", Arg: path, Err: fmt.Errorf("%w: is a directory", ErrInvalidArgument)}
	}
	src, err := NewReaderAtSource(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileSource{ReaderAtSource: src, file: f}, nil
}

// Name returns the path the file was opened with.
func (s *FileSource) Name() string {
	return s.file.Name()
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}

// isNilSource reports whether src is nil or a nil pointer to one of the
// sources of this package. Nil pointers of other implementations are not
// recognized.
func isNilSource(src ByteSource) bool {
	switch s := src.(type) {
	case nil:
		return true
	case *BytesSource:
		return s == nil
	case *StreamSource:
		return s == nil
	case *ReaderAtSource:
		return s == nil
	case *FileSource:
		return s == nil || s.ReaderAtSource == nil
	}
	return false
}

var (
	_ ByteSource = (*BytesSource)(nil)
	_ ByteSource = (*StreamSource)(nil)
	_ ByteSource = (*ReaderAtSource)(nil)
	_ ByteSource = (*FileSource)(nil)
)
