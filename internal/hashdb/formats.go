package hashdb

import (
	"bufio"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// loadText reads one hash per line. Blank lines and '#' comments are ignored,
// and only the first field is used so sha256sum/md5sum output loads directly.
func loadText(r io.Reader, set *models.KnownHashSet) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	read, line := 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		value, err := ParseHash(strings.Fields(text)[0])
		if err != nil {
			return read, fmt.Errorf("line %d: %w", line, err)
		}
		set.Add(value)
		read++
	}
	return read, scanner.Err()
}

var csvHashColumns = []string{"hash", "hash_value", "sha256", "sha1", "md5"}

// loadCSV reads the hash column of a CSV file. The header row, if present,
// selects the column; without one the first column is used.
func loadCSV(r io.Reader, set *models.KnownHashSet) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	read, row, column := 0, 0, 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return read, err
		}
		row++

		if row == 1 {
			if idx, ok := headerColumn(record); ok {
				column = idx
				continue
			}
		}

		if column >= len(record) || strings.TrimSpace(record[column]) == "" {
			continue
		}
		value, err := ParseHash(record[column])
		if err != nil {
			return read, fmt.Errorf("row %d: %w", row, err)
		}
		set.Add(value)
		read++
	}
	return read, nil
}

func headerColumn(record []string) (int, bool) {
	for _, want := range csvHashColumns {
		for i, cell := range record {
			if strings.EqualFold(strings.TrimSpace(cell), want) {
				return i, true
			}
		}
	}
	// A first row that is not a hash is an unknown header
	if len(record) > 0 {
		if _, err := ParseHash(record[0]); err != nil {
			return 0, true
		}
	}
	return 0, false
}

// hashFile is the YAML hash database layout
type hashFile struct {
	Hashes []string `yaml:"hashes"`
}

func loadYAML(r io.Reader, set *models.KnownHashSet) (int, error) {
	var hf hashFile
	if err := yaml.NewDecoder(r).Decode(&hf); err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	for i, h := range hf.Hashes {
		value, err := ParseHash(h)
		if err != nil {
			return i, fmt.Errorf("hashes[%d]: %w", i, err)
		}
		set.Add(value)
	}
	return len(hf.Hashes), nil
}

// loadSQLite reads the VIC_HASHES table, opening the database read-only
func loadSQLite(path string, set *models.KnownHashSet) (int, error) {
	dsn, err := sqliteDSN(path, "mode=ro")
	if err != nil {
		return 0, fmt.Errorf("hash database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return 0, fmt.Errorf("hash database %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT hash_value FROM VIC_HASHES")
	if err != nil {
		return 0, fmt.Errorf("hash database %s: %w", path, err)
	}
	defer rows.Close()

	read := 0
	for rows.Next() {
		var h sql.NullString
		if err := rows.Scan(&h); err != nil {
			return read, fmt.Errorf("hash database %s: %w", path, err)
		}
		if !h.Valid || strings.TrimSpace(h.String) == "" {
			continue
		}

		value, err := ParseHash(h.String)
		if err != nil {
			return read, fmt.Errorf("hash database %s row %d: %w", path, read+1, err)
		}
		set.Add(value)
		read++
	}
	if err := rows.Err(); err != nil {
		return read, fmt.Errorf("hash database %s: %w", path, err)
	}
	return read, nil
}

// sqliteDSN builds a file: URI for path with the given query
func sqliteDSN(path, query string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: query}
	return u.String(), nil
}
