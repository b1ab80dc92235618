// Package digest computes SHA-256, SHA-1 and MD5 of a stream in one pass.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// ErrFileUnreadable is returned when the stream fails mid-read
var ErrFileUnreadable = errors.New("file unreadable")

const (
	// DefaultChunkSize is the read buffer size used when none is configured
	DefaultChunkSize = 1 << 20
	// MaxChunkSize caps the read buffer
	MaxChunkSize = 64 << 20
)

// Computer hashes streams with a reusable read buffer.
// A Computer is not safe for concurrent use.
type Computer struct {
	buf    []byte
	sha256 hash.Hash
	sha1   hash.Hash
	md5    hash.Hash
}

// NewComputer creates a computer reading chunkSize bytes at a time.
// Sizes above MaxChunkSize are clamped.
func NewComputer(chunkSize int) *Computer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize = min(chunkSize, MaxChunkSize)
	return &Computer{
		buf:    make([]byte, chunkSize),
		sha256: sha256.New(),
		sha1:   sha1.New(),
		md5:    md5.New(),
	}
}

// Compute reads r to EOF and returns its digests along with the number of bytes read
func (c *Computer) Compute(r io.Reader) (models.DigestSet, int64, error) {
	c.sha256.Reset()
	c.sha1.Reset()
	c.md5.Reset()

	var total int64
	for {
		n, err := r.Read(c.buf)
		if n > 0 {
			chunk := c.buf[:n]
			c.sha256.Write(chunk)
			c.sha1.Write(chunk)
			c.md5.Write(chunk)
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.DigestSet{}, total, fmt.Errorf("%w: after %d bytes: %w", ErrFileUnreadable, total, err)
		}
	}

	return models.DigestSet{
		SHA256: hex.EncodeToString(c.sha256.Sum(nil)),
		SHA1:   hex.EncodeToString(c.sha1.Sum(nil)),
		MD5:    hex.EncodeToString(c.md5.Sum(nil)),
	}, total, nil
}

// Entry opens entry, hashes its content and closes it
func (c *Computer) Entry(entry *models.FileEntry) (models.DigestSet, int64, error) {
	r, err := entry.Open()
	if err != nil {
		return models.DigestSet{}, 0, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, entry.Path, err)
	}
	defer r.Close()

	digests, n, err := c.Compute(r)
	if err != nil {
		return models.DigestSet{}, n, fmt.Errorf("%s: %w", entry.Path, err)
	}
	return digests, n, nil
}
