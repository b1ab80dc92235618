// Package hashdb loads known-hash sets from hash list files and databases.
package hashdb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

var (
	// ErrInvalidHash is returned for entries that are not an MD5, SHA-1 or SHA-256 hex digest
	ErrInvalidHash = errors.New("invalid hash")
	// ErrUnsupportedFormat is returned for hash database files of unknown type
	ErrUnsupportedFormat = errors.New("unsupported hash database format")
)

// Format is a hash database file format
type Format string

const (
	FormatText   Format = "text"
	FormatCSV    Format = "csv"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// Loader loads known hashes from a file
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new hash database loader
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// DetectFormat derives the format and compression from the file name
func DetectFormat(path string) (Format, string, error) {
	name := strings.ToLower(filepath.Base(path))

	compression := ""
	switch ext := filepath.Ext(name); ext {
	case ".gz", ".zst":
		compression = ext[1:]
		name = strings.TrimSuffix(name, ext)
	}

	var format Format
	switch filepath.Ext(name) {
	case ".txt", ".lst", ".hash", ".hashes", ".md5", ".sha1", ".sha256":
		format = FormatText
	case ".csv":
		format = FormatCSV
	case ".yaml", ".yml":
		format = FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		format = FormatSQLite
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	if format == FormatSQLite && compression != "" {
		return "", "", fmt.Errorf("%w: compressed SQLite database %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	return format, compression, nil
}

// Load reads every hash of the database at path into a new set
func (l *Loader) Load(path string) (*models.KnownHashSet, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("hash database: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("hash database %s is not a regular file", path)
	}

	set := models.NewKnownHashSet()
	var read int

	if format == FormatSQLite {
		read, err = loadSQLite(path, set)
	} else {
		read, err = l.loadStream(path, format, compression, set)
	}
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded hash database",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("entries", read),
		zap.Int("unique", set.Len()),
	)
	if dup := read - set.Len(); dup > 0 {
		l.logger.Debug("Duplicate hashes ignored", zap.Int("count", dup))
	}

	return set, nil
}

func (l *Loader) loadStream(path string, format Format, compression string, set *models.KnownHashSet) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("hash database: %w", err)
	}
	defer f.Close()

	r, err := decompress(f, compression)
	if err != nil {
		return 0, fmt.Errorf("hash database %s: %w", path, err)
	}
	defer r.Close()

	var read int
	switch format {
	case FormatText:
		read, err = loadText(r, set)
	case FormatCSV:
		read, err = loadCSV(r, set)
	case FormatYAML:
		read, err = loadYAML(r, set)
	}
	if err != nil {
		return 0, fmt.Errorf("hash database %s: %w", path, err)
	}
	return read, nil
}

func decompress(r io.Reader, compression string) (io.ReadCloser, error) {
	switch compression {
	case "gz":
		return gzip.NewReader(r)
	case "zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}
