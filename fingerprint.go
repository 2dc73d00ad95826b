package filesig

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the parts of src that a detector with the given head
// and tail windows can observe: the content length, the first head bytes
// and the last tail bytes. Two sources with equal fingerprints produce the
// same detection results for such detectors.
func Fingerprint(src ByteSource, head, tail int64) (uint64, error) {
	if src == nil {
		return 0, invalidArgument("fingerprint", "source")
	}
	if head < 0 {
		return 0, outOfRange("fingerprint", "head", head)
	}
	if tail < 0 {
		return 0, outOfRange("fingerprint", "tail", tail)
	}

	size := src.Len()
	h := xxhash.New()

	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(size))
	_, _ = h.Write(lenBuf[:])

	headLen := min(head, size)
	if err := hashWindow(h, src, 0, headLen); err != nil {
		return 0, err
	}

	// The tail window starts where the head window ends when they overlap.
	tailStart := max(size-tail, headLen)
	if err := hashWindow(h, src, tailStart, size-tailStart); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

const fingerprintChunk = 64 * 1024

func hashWindow(h *xxhash.Digest, src ByteSource, offset, length int64) error {
	for length > 0 {
		n := int(min(length, fingerprintChunk))
		buf, err := src.Read(offset, n)
		if err != nil {
			return fmt.Errorf("failed to read window at %d: %w", offset, err)
		}
		if len(buf) == 0 {
			return nil
		}
		_, _ = h.Write(buf)
		offset += int64(len(buf))
		length -= int64(len(buf))
	}
	return nil
}

// fingerprintKey renders a fingerprint as a cache key.
func fingerprintKey(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
