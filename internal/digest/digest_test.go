package digest

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/IvanShishkin/hashhound/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeKnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.DigestSet
	}{
		{
			name:  "empty",
			input: "",
			want: models.DigestSet{
				SHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
				SHA1:   "da39a3ee5e6b4b0d3255bfef95601890afd80709",
				MD5:    "d41d8cd98f00b204e9800998ecf8427e",
			},
		},
		{
			name:  "hello",
			input: "hello",
			want: models.DigestSet{
				SHA256: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
				SHA1:   "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
				MD5:    "5d41402abc4b2a76b9719d911017c592",
			},
		},
		{
			name:  "abc",
			input: "abc",
			want: models.DigestSet{
				SHA256: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
				SHA1:   "a9993e364706816aba3e25717850c26c9cd0d89d",
				MD5:    "900150983cd24fb0d6963f7d28e17f72",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := NewComputer(0).Compute(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.input)), n)
		})
	}
}

func TestComputeChunkSizeIndependent(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 4099)

	want, _, err := NewComputer(len(data) + 1).Compute(bytes.NewReader(data))
	require.NoError(t, err)

	for _, size := range []int{1, 7, 512, 4096, 65536} {
		got, n, err := NewComputer(size).Compute(iotest.HalfReader(bytes.NewReader(data)))
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk size %d", size)
		assert.Equal(t, int64(len(data)), n)
	}
}

func TestComputeReusesComputer(t *testing.T) {
	c := NewComputer(8)

	first, _, err := c.Compute(strings.NewReader("hello"))
	require.NoError(t, err)
	_, _, err = c.Compute(strings.NewReader("something else entirely"))
	require.NoError(t, err)
	again, _, err := c.Compute(strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, first, again)
}

func TestComputeReadError(t *testing.T) {
	boom := errors.New("unreadable extent")
	r := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(boom))

	got, n, err := NewComputer(4).Compute(r)
	assert.ErrorIs(t, err, ErrFileUnreadable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.DigestSet{}, got)
	assert.Equal(t, int64(7), n)
}

func TestEntry(t *testing.T) {
	entry := models.NewFileEntry("/a.txt", "a.txt", 5, models.Timestamps{}, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("hello")), nil
	})

	got, n, err := NewComputer(0).Entry(entry)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", got.MD5)
	assert.Equal(t, int64(5), n)
}

func TestEntryOpenError(t *testing.T) {
	entry := models.NewFileEntry("/gone", "gone", 0, models.Timestamps{}, func() (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	})

	_, _, err := NewComputer(0).Entry(entry)
	assert.ErrorIs(t, err, ErrFileUnreadable)
	assert.Contains(t, err.Error(), "/gone")
}

func TestNewComputerBufferSize(t *testing.T) {
	tests := []struct {
		chunkSize int
		want      int
	}{
		{0, DefaultChunkSize},
		{-1, DefaultChunkSize},
		{4096, 4096},
		{MaxChunkSize, MaxChunkSize},
		{MaxChunkSize + 1, MaxChunkSize},
	}

	for _, tt := range tests {
		assert.Len(t, NewComputer(tt.chunkSize).buf, tt.want, "chunk size %d", tt.chunkSize)
	}
}
